package controller

import (
	"fmt"
	"strings"

	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"
)

// describeRoute returns a one-line summary of an HTTPRoute's hostnames and
// parent gateways, used in debug logs.
func describeRoute(route *gatewayv1.HTTPRoute) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s/%s", route.Namespace, route.Name)

	hosts := make([]string, 0, len(route.Spec.Hostnames))
	for _, h := range route.Spec.Hostnames {
		hosts = append(hosts, string(h))
	}
	fmt.Fprintf(&b, " hostnames=[%s]", strings.Join(hosts, ","))

	parents := make([]string, 0, len(route.Spec.ParentRefs))
	for _, ref := range route.Spec.ParentRefs {
		ns := route.Namespace
		if ref.Namespace != nil {
			ns = string(*ref.Namespace)
		}
		p := ns + "/" + string(ref.Name)
		if ref.SectionName != nil {
			p += "#" + string(*ref.SectionName)
		}
		parents = append(parents, p)
	}
	fmt.Fprintf(&b, " parents=[%s]", strings.Join(parents, ","))

	return b.String()
}
