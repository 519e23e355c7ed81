package controller

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"

	"github.com/yuriy-kovalchuk/yk-domain-connect/internal/config"
	"github.com/yuriy-kovalchuk/yk-domain-connect/internal/domainconnect"
	"github.com/yuriy-kovalchuk/yk-domain-connect/internal/template"
)

// mockApplier records apply calls for test assertions.
type mockApplier struct {
	mu       sync.Mutex
	failures map[string]string // domain+host -> error message
	calls    []domainconnect.Options
}

func (m *mockApplier) Apply(_ context.Context, opts domainconnect.Options) domainconnect.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, opts)
	if msg, ok := m.failures[opts.Host+"."+opts.Domain]; ok {
		return domainconnect.Result{Success: false, Error: msg}
	}
	return domainconnect.Result{Success: true}
}

func newTestParamMap() *config.ParamMap {
	return config.NewParamMap(map[string]template.Params{
		"my-domain1.com": {"ip": "10.0.8.100"},
		"my-domain2.it":  {"ip": "10.0.9.50"},
	})
}

func newTestReconciler(t *testing.T, mock *mockApplier, objs ...client.Object) (*HTTPRouteReconciler, client.Client) {
	t.Helper()
	scheme := runtime.NewScheme()
	if err := gatewayv1.Install(scheme); err != nil {
		t.Fatalf("failed to install gateway-api scheme: %v", err)
	}

	fakeClient := fake.NewClientBuilder().
		WithScheme(scheme).
		WithObjects(objs...).
		Build()

	return &HTTPRouteReconciler{
		Client:     fakeClient,
		APIReader:  fakeClient,
		Log:        zap.New(zap.UseDevMode(true)),
		Params:     newTestParamMap(),
		Connect:    mock,
		ProviderID: "exampleservice.domainconnect.org",
		ServiceID:  "template1",
	}, fakeClient
}

func newRoute(name string, hostnames ...gatewayv1.Hostname) *gatewayv1.HTTPRoute {
	return &gatewayv1.HTTPRoute{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: "default",
		},
		Spec: gatewayv1.HTTPRouteSpec{
			Hostnames: hostnames,
		},
	}
}

func requestFor(name string) ctrl.Request {
	return ctrl.Request{
		NamespacedName: types.NamespacedName{
			Name:      name,
			Namespace: "default",
		},
	}
}

func appliedAnnotation(t *testing.T, c client.Client, name string) []string {
	t.Helper()
	var route gatewayv1.HTTPRoute
	if err := c.Get(context.Background(), requestFor(name).NamespacedName, &route); err != nil {
		t.Fatalf("getting route: %v", err)
	}
	val, ok := route.Annotations[appliedHostnamesAnnotation]
	if !ok {
		return nil
	}
	var hosts []string
	if err := json.Unmarshal([]byte(val), &hosts); err != nil {
		t.Fatalf("decoding annotation %q: %v", val, err)
	}
	return hosts
}

func TestHTTPRouteReconciler_Reconcile(t *testing.T) {
	mock := &mockApplier{}
	reconciler, c := newTestReconciler(t, mock, newRoute("test-route", "app.my-domain1.com"))
	reconciler.Defaults = template.Params{"ttl": 600, "ip": "overridden"}

	result, err := reconciler.Reconcile(context.Background(), requestFor("test-route"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Requeue {
		t.Error("expected no requeue")
	}

	if len(mock.calls) != 1 {
		t.Fatalf("expected 1 apply call, got %d", len(mock.calls))
	}
	opts := mock.calls[0]
	if opts.Domain != "my-domain1.com" {
		t.Errorf("expected domain 'my-domain1.com', got %q", opts.Domain)
	}
	if opts.Host != "app" {
		t.Errorf("expected host 'app', got %q", opts.Host)
	}
	if opts.ProviderID != "exampleservice.domainconnect.org" || opts.ServiceID != "template1" {
		t.Errorf("unexpected provider/service: %q/%q", opts.ProviderID, opts.ServiceID)
	}
	if opts.Params["ip"] != "10.0.8.100" {
		t.Errorf("expected per-domain ip '10.0.8.100' to win over defaults, got %v", opts.Params["ip"])
	}
	if opts.Params["ttl"] != 600 {
		t.Errorf("expected default ttl 600, got %v", opts.Params["ttl"])
	}

	got := appliedAnnotation(t, c, "test-route")
	if len(got) != 1 || got[0] != "app.my-domain1.com" {
		t.Errorf("expected applied annotation [app.my-domain1.com], got %v", got)
	}
}

func TestHTTPRouteReconciler_ApexHostname(t *testing.T) {
	mock := &mockApplier{}
	reconciler, _ := newTestReconciler(t, mock, newRoute("apex-route", "my-domain2.it"))

	if _, err := reconciler.Reconcile(context.Background(), requestFor("apex-route")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mock.calls) != 1 {
		t.Fatalf("expected 1 apply call, got %d", len(mock.calls))
	}
	if mock.calls[0].Domain != "my-domain2.it" || mock.calls[0].Host != "" {
		t.Errorf("expected apex apply on my-domain2.it, got domain=%q host=%q", mock.calls[0].Domain, mock.calls[0].Host)
	}
}

func TestHTTPRouteReconciler_ReconcileUnknownDomain(t *testing.T) {
	mock := &mockApplier{}
	reconciler, c := newTestReconciler(t, mock, newRoute("unknown-route", "app.unknown.com"))

	result, err := reconciler.Reconcile(context.Background(), requestFor("unknown-route"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Requeue {
		t.Error("expected no requeue")
	}

	if len(mock.calls) != 0 {
		t.Errorf("expected 0 apply calls for unknown domain, got %d", len(mock.calls))
	}
	if got := appliedAnnotation(t, c, "unknown-route"); got != nil {
		t.Errorf("expected no annotation, got %v", got)
	}
}

func TestHTTPRouteReconciler_SkipsAlreadyApplied(t *testing.T) {
	route := newRoute("skip-route", "app.my-domain1.com", "api.my-domain1.com")
	route.Annotations = map[string]string{appliedHostnamesAnnotation: `["app.my-domain1.com"]`}

	mock := &mockApplier{}
	reconciler, c := newTestReconciler(t, mock, route)

	if _, err := reconciler.Reconcile(context.Background(), requestFor("skip-route")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mock.calls) != 1 {
		t.Fatalf("expected 1 apply call, got %d", len(mock.calls))
	}
	if mock.calls[0].Host != "api" {
		t.Errorf("expected only 'api' to be applied, got %q", mock.calls[0].Host)
	}

	got := appliedAnnotation(t, c, "skip-route")
	if len(got) != 2 {
		t.Errorf("expected 2 applied hostnames, got %v", got)
	}
}

func TestHTTPRouteReconciler_ReapplyEnabled(t *testing.T) {
	route := newRoute("reapply-route", "app.my-domain1.com")
	route.Annotations = map[string]string{appliedHostnamesAnnotation: `["app.my-domain1.com"]`}

	mock := &mockApplier{}
	reconciler, _ := newTestReconciler(t, mock, route)
	reconciler.Reapply = true

	if _, err := reconciler.Reconcile(context.Background(), requestFor("reapply-route")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mock.calls) != 1 {
		t.Fatalf("expected 1 apply call when reapply is enabled, got %d", len(mock.calls))
	}
}

func TestHTTPRouteReconciler_RemovedHostnameDroppedFromAnnotation(t *testing.T) {
	route := newRoute("shrink-route", "app.my-domain1.com")
	route.Annotations = map[string]string{appliedHostnamesAnnotation: `["app.my-domain1.com","old.my-domain1.com"]`}

	mock := &mockApplier{}
	reconciler, c := newTestReconciler(t, mock, route)

	if _, err := reconciler.Reconcile(context.Background(), requestFor("shrink-route")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mock.calls) != 0 {
		t.Errorf("expected no apply calls, got %d", len(mock.calls))
	}
	got := appliedAnnotation(t, c, "shrink-route")
	if len(got) != 1 || got[0] != "app.my-domain1.com" {
		t.Errorf("expected annotation [app.my-domain1.com], got %v", got)
	}
}

func TestHTTPRouteReconciler_ApplyFailure(t *testing.T) {
	mock := &mockApplier{
		failures: map[string]string{"bad.my-domain1.com": "Unexpected status code: 500"},
	}
	reconciler, c := newTestReconciler(t, mock, newRoute("fail-route", "bad.my-domain1.com", "good.my-domain1.com"))

	_, err := reconciler.Reconcile(context.Background(), requestFor("fail-route"))
	if err == nil {
		t.Fatal("expected error when an apply fails, got nil")
	}

	if len(mock.calls) != 2 {
		t.Fatalf("expected both hostnames to be attempted, got %d calls", len(mock.calls))
	}
	got := appliedAnnotation(t, c, "fail-route")
	if len(got) != 1 || got[0] != "good.my-domain1.com" {
		t.Errorf("expected only the successful hostname recorded, got %v", got)
	}
}

func TestHTTPRouteReconciler_Deletion(t *testing.T) {
	now := metav1.Now()
	route := newRoute("delete-route", "app.my-domain1.com")
	route.Finalizers = []string{"example.com/keep"}
	route.DeletionTimestamp = &now

	mock := &mockApplier{}
	reconciler, _ := newTestReconciler(t, mock, route)

	result, err := reconciler.Reconcile(context.Background(), requestFor("delete-route"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Requeue {
		t.Error("expected no requeue")
	}
	if len(mock.calls) != 0 {
		t.Errorf("expected no apply calls for a deleted route, got %d", len(mock.calls))
	}
}

func TestHTTPRouteReconciler_NotFound(t *testing.T) {
	mock := &mockApplier{}
	reconciler, _ := newTestReconciler(t, mock)

	if _, err := reconciler.Reconcile(context.Background(), requestFor("missing")); err != nil {
		t.Fatalf("expected not-found to be ignored, got %v", err)
	}
}

func TestDescribeRoute(t *testing.T) {
	section := gatewayv1.SectionName("https")
	route := newRoute("web", "a.example.com", "b.example.com")
	route.Spec.ParentRefs = []gatewayv1.ParentReference{{Name: "gw", SectionName: &section}}

	want := "default/web hostnames=[a.example.com,b.example.com] parents=[default/gw#https]"
	if got := describeRoute(route); got != want {
		t.Errorf("describeRoute() = %q, want %q", got, want)
	}
}

func TestHTTPRouteReconciler_SkipsWildcardHostname(t *testing.T) {
	mock := &mockApplier{}
	reconciler, c := newTestReconciler(t, mock, newRoute("wildcard-route", "*.apps.my-domain1.com", "app.my-domain1.com"))

	if _, err := reconciler.Reconcile(context.Background(), requestFor("wildcard-route")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mock.calls) != 1 {
		t.Fatalf("expected 1 apply call, got %d", len(mock.calls))
	}
	if mock.calls[0].Host != "app" {
		t.Errorf("expected only 'app' to be applied, got host %q", mock.calls[0].Host)
	}
	got := appliedAnnotation(t, c, "wildcard-route")
	if len(got) != 1 || got[0] != "app.my-domain1.com" {
		t.Errorf("expected annotation [app.my-domain1.com], got %v", got)
	}
}
