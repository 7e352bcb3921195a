package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/fcache/cmd/kv"
	"github.com/ValentinKolb/fcache/cmd/util"
	"github.com/ValentinKolb/fcache/lib/tempdir"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "fcache",
		Short: "embedded two-tier key-value cache",
		Long: fmt.Sprintf(`fcache (v%s)

An embedded key-value cache written in Go. Recently used values stay in
memory, every entry is stored in a size-bounded, crash-safe log on disk.`, Version),
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of fcache",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("fcache v%s\n", Version)
		},
	}
	tempdirCmd = &cobra.Command{
		Use:   "tempdir [id]",
		Short: "Print the cache directory used for --id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := tempdir.ToTempSubdir(args[0])
			if err != nil {
				return err
			}
			fmt.Println(dir)
			return nil
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Flags
	util.SetupCacheFlags(RootCmd)

	// Add Commands
	RootCmd.AddCommand(kv.Commands()...)
	RootCmd.AddCommand(tempdirCmd)
	RootCmd.AddCommand(versionCmd)
}

// setup binds the flags of the executed command and configures logging
func setup(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	return util.InitLogging()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
