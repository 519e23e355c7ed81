package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/yuriy-kovalchuk/yk-domain-connect/internal/telemetry"
)

var Version = "dev"

var (
	zapOpts = zap.Options{
		Development: true,
	}
	configPath string

	rootCmd = &cobra.Command{
		Use:   "yk-domain-connect",
		Short: "Domain Connect client and HTTPRoute controller",
		Long: `yk-domain-connect discovers Domain Connect settings for a domain, previews
and applies service templates, and can run as a Kubernetes controller that
applies a template for every hostname routed by a Gateway API HTTPRoute.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctrl.SetLogger(zap.New(zap.UseFlagOptions(&zapOpts)))
		},
	}
)

func init() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	fs := flag.NewFlagSet("zap", flag.ExitOnError)
	zapOpts.BindFlags(fs)
	rootCmd.PersistentFlags().AddGoFlagSet(fs)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"path to the configuration file (default $DOMAIN_CONNECT_CONFIG or configs/domain-connect.yaml)")

	rootCmd.AddCommand(
		discoverCmd,
		templateCmd,
		previewCmd,
		applyCmd,
		authorizeCmd,
		statusCmd,
		callbackCmd,
		identifyCmd,
		controllerCmd,
		versionCmd,
	)
}

func main() {
	ctx := ctrl.SetupSignalHandler()

	shutdown, err := telemetry.Setup(ctx, Version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	err = rootCmd.ExecuteContext(ctx)
	if serr := shutdown(context.Background()); serr != nil {
		fmt.Fprintf(os.Stderr, "error: shutting down telemetry: %v\n", serr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
