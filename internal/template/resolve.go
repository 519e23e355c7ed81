package template

// ResolveRecords substitutes params into every template record and applies
// the caller host rules. Output order matches t.Records and t is not
// modified. domain is accepted for symmetry with the apply call; record hosts
// stay relative to it.
//
// With a caller host, "@" becomes the host and any other resolved name is
// placed under it ("www" + "blog" -> "www.blog"). "%host%" becomes the host,
// or "@" when no host is given.
func ResolveRecords(t *Template, params Params, domain, host string) []Record {
	if t == nil {
		return nil
	}
	out := make([]Record, 0, len(t.Records))
	for _, rec := range t.Records {
		resolved := rec
		resolved.Host = resolveHost(rec.Host, params, host)
		if rec.PointsTo != "" {
			resolved.PointsTo = Substitute(rec.PointsTo, params)
		}
		out = append(out, resolved)
	}
	return out
}

func resolveHost(raw string, params Params, host string) string {
	h := Substitute(raw, params)

	if host != "" {
		if h == ApexHost {
			h = host
		} else if h != HostPlaceholder {
			h = h + "." + host
		}
	}

	// %host% is handled after concatenation so it is never placed under itself.
	if h == HostPlaceholder {
		if host != "" {
			return host
		}
		return ApexHost
	}
	return h
}
