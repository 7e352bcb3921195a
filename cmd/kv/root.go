package kv

import (
	"github.com/ValentinKolb/fcache/cmd/util"
	"github.com/ValentinKolb/fcache/lib/cache"
	"github.com/ValentinKolb/fcache/lib/codec"
	"github.com/spf13/cobra"
)

// StringCache is the cache type used by all commands: string keys and values
type StringCache = cache.Cache[string, string]

// Commands returns all key-value commands
func Commands() []*cobra.Command {
	return []*cobra.Command{
		putCmd,
		getCmd,
		hasCmd,
		delCmd,
		putIfAbsentCmd,
		replaceCmd,
		casCmd,
		listCmd,
		clearCmd,
		compactCmd,
		infoCmd,
		perfTestCmd,
	}
}

// withCache opens the configured cache around fn and closes it afterwards
func withCache(fn func(cmd *cobra.Command, c *StringCache, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		c, err := openCache()
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := c.Close(); err == nil {
				err = closeErr
			}
		}()
		return fn(cmd, c, args)
	}
}

func openCache() (*StringCache, error) {
	dir, err := util.GetCacheDir()
	if err != nil {
		return nil, err
	}
	return cache.Open(dir, util.GetCacheConfig(), codec.String(), codec.String())
}
