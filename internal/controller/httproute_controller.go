package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-logr/logr"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/event"
	"sigs.k8s.io/controller-runtime/pkg/predicate"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"

	"k8s.io/client-go/util/retry"

	"github.com/yuriy-kovalchuk/yk-domain-connect/internal/config"
	"github.com/yuriy-kovalchuk/yk-domain-connect/internal/dns"
	"github.com/yuriy-kovalchuk/yk-domain-connect/internal/domainconnect"
	"github.com/yuriy-kovalchuk/yk-domain-connect/internal/template"
)

const appliedHostnamesAnnotation = "domainconnect.yk/applied-hostnames"

// Applier applies a Domain Connect template for one domain/host pair.
type Applier interface {
	Apply(ctx context.Context, opts domainconnect.Options) domainconnect.Result
}

// HTTPRouteReconciler applies the configured Domain Connect template for
// every hostname of an HTTPRoute that has an entry in the param map.
type HTTPRouteReconciler struct {
	client.Client
	APIReader  client.Reader
	Log        logr.Logger
	Params     *config.ParamMap
	Connect    Applier
	ProviderID string
	ServiceID  string
	Defaults   template.Params // merged under the per-domain params
	Reapply    bool            // when true, apply on every reconcile; when false, only for hostnames not yet applied
}

func (r *HTTPRouteReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	var route gatewayv1.HTTPRoute
	if err := r.APIReader.Get(ctx, req.NamespacedName, &route); err != nil {
		return ctrl.Result{}, client.IgnoreNotFound(err)
	}

	// Domain Connect has no removal operation, so deleted routes need no cleanup.
	if !route.DeletionTimestamp.IsZero() {
		return ctrl.Result{}, nil
	}
	r.Log.V(1).Info("reconciling HTTPRoute", "route", describeRoute(&route))

	var appliedHostnames []string
	if val, ok := route.Annotations[appliedHostnamesAnnotation]; ok {
		_ = json.Unmarshal([]byte(val), &appliedHostnames)
	}

	applied := make([]string, 0, len(route.Spec.Hostnames))
	var errs []error
	for _, h := range route.Spec.Hostnames {
		hostname := string(h)

		// A template applies to one concrete host; the provider API has no wildcard form.
		if strings.HasPrefix(hostname, "*.") {
			r.Log.V(1).Info("skipping wildcard hostname", "hostname", hostname)
			continue
		}

		params, ok := r.Params.LookupParams(hostname)
		if !ok {
			r.Log.V(1).Info("no parameters configured for hostname", "hostname", hostname)
			continue
		}

		if !r.Reapply && slices.Contains(appliedHostnames, hostname) {
			r.Log.V(1).Info("template already applied, skipping", "hostname", hostname)
			applied = append(applied, hostname)
			continue
		}

		parts := dns.Split(hostname)
		opts := domainconnect.Options{
			Domain:     parts.Domain,
			Host:       parts.Subdomain,
			ProviderID: r.ProviderID,
			ServiceID:  r.ServiceID,
			Params:     r.mergeParams(params),
		}

		res := r.Connect.Apply(ctx, opts)
		if !res.Success {
			r.Log.Error(errors.New(res.Error), "applying template failed", "hostname", hostname, "domain", parts.Domain)
			errs = append(errs, fmt.Errorf("applying template for %s: %s", hostname, res.Error))
			continue
		}
		r.Log.Info("applied template", "hostname", hostname, "domain", parts.Domain, "host", parts.Subdomain)
		applied = append(applied, hostname)
	}

	// Record the hostnames that currently have the template applied.
	if !reflect.DeepEqual(appliedHostnames, applied) && !(len(appliedHostnames) == 0 && len(applied) == 0) {
		err := retry.RetryOnConflict(retry.DefaultRetry, func() error {
			if err := r.APIReader.Get(ctx, req.NamespacedName, &route); err != nil {
				return err
			}
			if route.Annotations == nil {
				route.Annotations = make(map[string]string)
			}
			data, _ := json.Marshal(applied)
			route.Annotations[appliedHostnamesAnnotation] = string(data)
			return r.Update(ctx, &route)
		})
		if err != nil {
			return ctrl.Result{}, fmt.Errorf("failed to update applied-hostnames annotation: %w", err)
		}
	}

	if len(errs) > 0 {
		return ctrl.Result{}, errors.Join(errs...)
	}
	return ctrl.Result{}, nil
}

func (r *HTTPRouteReconciler) mergeParams(params template.Params) template.Params {
	out := make(template.Params, len(r.Defaults)+len(params))
	for k, v := range r.Defaults {
		out[k] = v
	}
	for k, v := range params {
		out[k] = v
	}
	return out
}

func (r *HTTPRouteReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&gatewayv1.HTTPRoute{}).
		WithEventFilter(predicate.Funcs{
			UpdateFunc: func(e event.UpdateEvent) bool {
				// Reconcile only when the Spec (Generation) has changed.
				return e.ObjectOld.GetGeneration() != e.ObjectNew.GetGeneration()
			},
		}).
		Complete(r)
}
