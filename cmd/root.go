package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	profiler interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dgamr",
	Short: "Adaptive element trees for nodal Discontinuous Galerkin meshes",
	Long: `
Builds forests of line and triangle DG cells over structured root meshes,
refines and elevates them, and inspects the standard element operators.

dgamr run -I input.yaml
dgamr element -n 3 -s tri`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return startProfile(viper.GetString("profile"))
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		stopProfile()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	defer glog.Flush()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		stopProfile()
		glog.Flush()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dgamr.yaml)")
	rootCmd.PersistentFlags().IntP("parallel", "p", 0, "number of partitions for parallel leaf sweeps, overrides the input file")
	rootCmd.PersistentFlags().String("profile", "", "write a profile of the run: cpu or mem")
	_ = viper.BindPFlag("parallel", rootCmd.PersistentFlags().Lookup("parallel"))
	_ = viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))

	// glog registers -v, -logtostderr and friends on the Go flag set
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// glog complains about logging before flag.Parse
	_ = flag.CommandLine.Parse(nil)
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".dgamr" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".dgamr")
	}

	viper.SetEnvPrefix("DGAMR")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		glog.V(1).Infof("using config file: %s", viper.ConfigFileUsed())
	}
}

func startProfile(kind string) error {
	switch kind {
	case "":
	case "cpu":
		profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet)
	case "mem":
		profiler = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet)
	default:
		return fmt.Errorf("unknown profile kind %q, want cpu or mem", kind)
	}
	return nil
}

func stopProfile() {
	if profiler != nil {
		profiler.Stop()
		profiler = nil
	}
}
