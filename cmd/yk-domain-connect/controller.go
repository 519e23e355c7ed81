package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"

	"github.com/yuriy-kovalchuk/yk-domain-connect/internal/config"
	"github.com/yuriy-kovalchuk/yk-domain-connect/internal/controller"
)

var scheme = runtime.NewScheme()

var controllerFlags struct {
	paramMapPath string
	metricsAddr  string
	probeAddr    string
}

var controllerCmd = &cobra.Command{
	Use:   "controller",
	Short: "Apply the configured template for every hostname of Gateway API HTTPRoutes",
	Args:  cobra.NoArgs,
	RunE:  runController,
}

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(gatewayv1.Install(scheme))

	controllerCmd.Flags().StringVar(&controllerFlags.paramMapPath, "param-map", "",
		"path to the domain parameter map (default $PARAM_MAP_PATH or configs/param-map.yaml)")
	controllerCmd.Flags().StringVar(&controllerFlags.metricsAddr, "metrics-bind-address", ":9090", "metrics endpoint address")
	controllerCmd.Flags().StringVar(&controllerFlags.probeAddr, "health-probe-bind-address", ":8081", "health probe endpoint address")
}

func runController(cmd *cobra.Command, args []string) error {
	log := ctrl.Log.WithName("setup")

	log.Info("starting yk-domain-connect controller", "version", Version)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.ProviderID == "" || cfg.ServiceID == "" {
		return fmt.Errorf("controller needs provider_id and service_id in the config file")
	}
	log.Info("loaded config", "providerId", cfg.ProviderID, "serviceId", cfg.ServiceID)

	paramMapPath := controllerFlags.paramMapPath
	if paramMapPath == "" {
		paramMapPath = os.Getenv("PARAM_MAP_PATH")
	}
	if paramMapPath == "" {
		paramMapPath = "configs/param-map.yaml"
	}
	paramMap, err := config.LoadParamMap(paramMapPath)
	if err != nil {
		return fmt.Errorf("unable to load param map: %w", err)
	}
	log.Info("loaded param map", "path", paramMapPath, "domains", len(paramMap.Domains()))

	client, err := newClient(ctrl.Log.WithName("domainconnect"), cfg)
	if err != nil {
		return err
	}

	mgr, err := ctrl.NewManager(ctrl.GetConfigOrDie(), ctrl.Options{
		Scheme:                 scheme,
		Metrics:                metricsserver.Options{BindAddress: controllerFlags.metricsAddr},
		HealthProbeBindAddress: controllerFlags.probeAddr,
	})
	if err != nil {
		return fmt.Errorf("unable to create manager: %w", err)
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		return fmt.Errorf("unable to set up health check: %w", err)
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		return fmt.Errorf("unable to set up ready check: %w", err)
	}

	reconciler := &controller.HTTPRouteReconciler{
		Client:     mgr.GetClient(),
		APIReader:  mgr.GetAPIReader(),
		Log:        ctrl.Log.WithName("httproute-controller"),
		Params:     paramMap,
		Connect:    client,
		ProviderID: cfg.ProviderID,
		ServiceID:  cfg.ServiceID,
		Defaults:   cfg.Params,
		Reapply:    cfg.Reapply,
	}
	if err := reconciler.SetupWithManager(mgr); err != nil {
		return fmt.Errorf("unable to set up HTTPRoute controller: %w", err)
	}

	log.Info("starting manager")
	if err := mgr.Start(cmd.Context()); err != nil {
		return fmt.Errorf("manager exited with error: %w", err)
	}

	return nil
}
