package directory

// builtinProviders is ordered by priority: entries whose domains are
// substrings of broader ones must come first.
var builtinProviders = []Provider{
	{
		Name:              "GoDaddy",
		Domains:           []string{"domaincontrol.com"},
		LoginURL:          "https://dcc.godaddy.com/manage/dns",
		IconURL:           "https://img1.wsimg.com/isteam/ip/static/godaddy-logo.png",
		CNAMEInstructions: "Open My Products, choose DNS next to the domain, then Add New Record with type CNAME.",
	},
	{
		Name:              "Cloudflare",
		Domains:           []string{"ns.cloudflare.com"},
		LoginURL:          "https://dash.cloudflare.com/login",
		IconURL:           "https://www.cloudflare.com/favicon.ico",
		CNAMEInstructions: "Select the domain, open DNS > Records and click Add record with type CNAME. Set proxy status to DNS only.",
	},
	{
		Name:              "Amazon Route 53",
		Domains:           []string{"awsdns"},
		LoginURL:          "https://console.aws.amazon.com/route53/v2/hostedzones",
		IconURL:           "https://a0.awsstatic.com/libra-css/images/site/fav/favicon.ico",
		CNAMEInstructions: "Open the hosted zone for the domain and choose Create record with record type CNAME.",
	},
	{
		Name:              "Google Cloud DNS",
		Domains:           []string{"googledomains.com", "google.com"},
		LoginURL:          "https://console.cloud.google.com/net-services/dns/zones",
		IconURL:           "https://www.gstatic.com/devrel-devsite/prod/favicon.png",
		CNAMEInstructions: "Open the zone, click Add standard and choose resource record type CNAME.",
	},
	{
		Name:              "Namecheap",
		Domains:           []string{"registrar-servers.com"},
		LoginURL:          "https://ap.www.namecheap.com/domains/list",
		IconURL:           "https://www.namecheap.com/favicon.ico",
		CNAMEInstructions: "Click Manage next to the domain, open Advanced DNS and add a CNAME Record.",
	},
	{
		Name:              "IONOS",
		Domains:           []string{"ui-dns"},
		LoginURL:          "https://my.ionos.com/domains",
		IconURL:           "https://www.ionos.com/favicon.ico",
		CNAMEInstructions: "Open Domains & SSL, select the domain, choose DNS and Add record of type CNAME.",
	},
	{
		Name:              "DigitalOcean",
		Domains:           []string{"digitalocean.com"},
		LoginURL:          "https://cloud.digitalocean.com/networking/domains",
		IconURL:           "https://www.digitalocean.com/favicon.ico",
		CNAMEInstructions: "Open Networking > Domains, select the domain and create a CNAME record.",
	},
	{
		Name:              "Azure DNS",
		Domains:           []string{"azure-dns"},
		LoginURL:          "https://portal.azure.com/#browse/Microsoft.Network%2FdnsZones",
		IconURL:           "https://portal.azure.com/favicon.ico",
		CNAMEInstructions: "Open the DNS zone and select + Record set with type CNAME.",
	},
	{
		Name:              "Gandi",
		Domains:           []string{"gandi.net"},
		LoginURL:          "https://admin.gandi.net/domain",
		IconURL:           "https://www.gandi.net/favicon.ico",
		CNAMEInstructions: "Select the domain, open DNS Records and click Add with type CNAME.",
	},
	{
		Name:              "Porkbun",
		Domains:           []string{"porkbun.com"},
		LoginURL:          "https://porkbun.com/account/domainsSpeedy",
		IconURL:           "https://porkbun.com/favicon.ico",
		CNAMEInstructions: "Click DNS next to the domain and add a record with type CNAME.",
	},
	{
		Name:              "Squarespace Domains",
		Domains:           []string{"squarespacedns.com"},
		LoginURL:          "https://account.squarespace.com/domains",
		IconURL:           "https://www.squarespace.com/favicon.ico",
		CNAMEInstructions: "Open the domain, choose DNS and add a custom record of type CNAME.",
	},
	{
		Name:              "Hover",
		Domains:           []string{"hover.com"},
		LoginURL:          "https://www.hover.com/signin",
		IconURL:           "https://www.hover.com/favicon.ico",
		CNAMEInstructions: "Select the domain, open the DNS tab and click Add A Record, choosing CNAME.",
	},
	{
		Name:              "DNSimple",
		Domains:           []string{"dnsimple.com"},
		LoginURL:          "https://dnsimple.com/login",
		IconURL:           "https://dnsimple.com/favicon.ico",
		CNAMEInstructions: "Open the domain, go to DNS and choose Add record > CNAME.",
	},
	{
		Name:              "NS1",
		Domains:           []string{"nsone.net"},
		LoginURL:          "https://my.nsone.net",
		IconURL:           "https://ns1.com/favicon.ico",
		CNAMEInstructions: "Open the zone and add a record of type CNAME.",
	},
	{
		Name:              "OVHcloud",
		Domains:           []string{"ovh.net"},
		LoginURL:          "https://www.ovh.com/manager/web/#/domain",
		IconURL:           "https://www.ovh.com/favicon.ico",
		CNAMEInstructions: "Select the domain, open the DNS zone tab and click Add an entry, choosing CNAME.",
	},
}

// Builtin returns the compiled-in provider table.
func Builtin() *Static {
	return NewStatic(builtinProviders)
}
