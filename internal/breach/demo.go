package breach

import "strings"

// demoDomains are the recipient domains for which demo mode reports a breach.
var demoDomains = map[string]struct{}{
	"example.com": {},
	"test.com":    {},
}

// DomainOf returns the lowercased text after the last '@' of an address.
// An address without '@' is returned lowercased in full.
func DomainOf(email string) string {
	return strings.ToLower(email[strings.LastIndex(email, "@")+1:])
}

// Demo returns the canned breach records for a lowercased domain: one
// synthetic record for the demo domains, nothing otherwise. It performs no I/O.
func Demo(domain string) []Raw {
	if _, ok := demoDomains[domain]; !ok {
		return []Raw{}
	}

	return []Raw{
		{
			"Name":        "ExampleBreach",
			"Domain":      domain,
			"BreachDate":  "2023-09-10",
			"AddedDate":   "2023-10-01",
			"PwnCount":    12345,
			"Description": "Sample demo breach to showcase UI.",
			"DataClasses": []string{"Email addresses", "Passwords"},
			"IsVerified":  true,
		},
	}
}
