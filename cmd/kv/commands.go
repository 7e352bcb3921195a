package kv

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
)

var (
	putCmd = &cobra.Command{
		Use:   "put [key] [value]",
		Short: "Sets the value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: withCache(func(_ *cobra.Command, c *StringCache, args []string) error {
			if err := c.Put(args[0], args[1]); err != nil {
				return err
			}
			fmt.Println("put successfully")
			return nil
		}),
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Gets the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: withCache(func(_ *cobra.Command, c *StringCache, args []string) error {
			value, ok, err := c.Get(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("key %q not found", args[0])
			}
			fmt.Println(value)
			return nil
		}),
	}
	hasCmd = &cobra.Command{
		Use:   "has [key]",
		Short: "Checks if a key exists (does not count as an access)",
		Args:  cobra.ExactArgs(1),
		RunE: withCache(func(_ *cobra.Command, c *StringCache, args []string) error {
			ok, err := c.ContainsKey(args[0])
			if err != nil {
				return err
			}
			fmt.Println(ok)
			return nil
		}),
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes a key",
		Args:  cobra.ExactArgs(1),
		RunE: withCache(func(_ *cobra.Command, c *StringCache, args []string) error {
			if err := c.Remove(args[0]); err != nil {
				return err
			}
			fmt.Println("deleted successfully")
			return nil
		}),
	}
	putIfAbsentCmd = &cobra.Command{
		Use:   "put-if-absent [key] [value]",
		Short: "Sets the value for a key if the key is not already set",
		Args:  cobra.ExactArgs(2),
		RunE: withCache(func(_ *cobra.Command, c *StringCache, args []string) error {
			prev, loaded, err := c.PutIfAbsent(args[0], args[1])
			if err != nil {
				return err
			}
			if loaded {
				fmt.Printf("key already set to: %s\n", prev)
			} else {
				fmt.Println("put successfully")
			}
			return nil
		}),
	}
	replaceCmd = &cobra.Command{
		Use:   "replace [key] [value]",
		Short: "Sets the value for a key only if the key is already set",
		Args:  cobra.ExactArgs(2),
		RunE: withCache(func(_ *cobra.Command, c *StringCache, args []string) error {
			prev, replaced, err := c.Replace(args[0], args[1])
			if err != nil {
				return err
			}
			if replaced {
				fmt.Printf("replaced (previous value: %s)\n", prev)
			} else {
				fmt.Println("key not set, nothing replaced")
			}
			return nil
		}),
	}
	casCmd = &cobra.Command{
		Use:   "cas [key] [old] [new]",
		Short: "Sets the value for a key only if it currently holds old",
		Args:  cobra.ExactArgs(3),
		RunE: withCache(func(_ *cobra.Command, c *StringCache, args []string) error {
			swapped, err := c.CompareAndSwap(args[0], args[1], args[2])
			if err != nil {
				return err
			}
			if swapped {
				fmt.Println("swapped successfully")
			} else {
				fmt.Println("current value differs, nothing swapped")
			}
			return nil
		}),
	}
	listCmd = &cobra.Command{
		Use:   "list",
		Short: "Lists all keys (and values with --values)",
		Args:  cobra.NoArgs,
		RunE: withCache(func(cmd *cobra.Command, c *StringCache, _ []string) error {
			if withValues, _ := cmd.Flags().GetBool("values"); withValues {
				entries := make(map[string]string)
				for k, v := range c.All() {
					entries[k] = v
				}
				keys := make([]string, 0, len(entries))
				for k := range entries {
					keys = append(keys, k)
				}
				slices.Sort(keys)
				for _, k := range keys {
					fmt.Printf("%s\t%s\n", k, entries[k])
				}
				return nil
			}

			keys := slices.Sorted(c.Keys())
			for _, k := range keys {
				fmt.Println(k)
			}
			return nil
		}),
	}
	clearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Removes all entries",
		Args:  cobra.NoArgs,
		RunE: withCache(func(_ *cobra.Command, c *StringCache, _ []string) error {
			if err := c.Clear(); err != nil {
				return err
			}
			fmt.Println("cleared successfully")
			return nil
		}),
	}
	compactCmd = &cobra.Command{
		Use:   "compact",
		Short: "Rewrites the disk log so it only holds live entries",
		Args:  cobra.NoArgs,
		RunE: withCache(func(_ *cobra.Command, c *StringCache, _ []string) error {
			before, err := c.Info()
			if err != nil {
				return err
			}
			if err := c.Compact(); err != nil {
				return err
			}
			after, err := c.Info()
			if err != nil {
				return err
			}
			fmt.Printf("compacted successfully: %d -> %d bytes\n", before.Disk.SizeBytes, after.Disk.SizeBytes)
			return nil
		}),
	}
	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Prints statistics about the cache",
		Args:  cobra.NoArgs,
		RunE: withCache(func(cmd *cobra.Command, c *StringCache, _ []string) error {
			if metrics, _ := cmd.Flags().GetBool("metrics"); metrics {
				c.WriteMetrics(os.Stdout)
				return nil
			}

			info, err := c.Info()
			if err != nil {
				return err
			}
			fmt.Printf("Directory: %s\nEntries:   %d\n", info.Dir, info.Entries)
			fmt.Print(info.Config)

			tiers, err := json.MarshalIndent(map[string]interface{}{
				"disk": info.Disk,
				"heap": info.Heap,
			}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Printf("\nTIERS\n%s\n", tiers)
			return nil
		}),
	}
)

func init() {
	listCmd.Flags().Bool("values", false, "Print the value next to every key")
	infoCmd.Flags().Bool("metrics", false, "Print the metrics in the Prometheus text format")
}
