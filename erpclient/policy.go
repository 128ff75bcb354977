package erpclient

import (
	"time"

	"github.com/mietwerk/mietwerk-go/respcache"
)

// DefaultPolicy mirrors how volatile each resource family is: the signed-in
// user rarely changes, dashboard numbers go stale within a minute, and the
// CRUD collections sit in between on the policy default. Paths outside the
// table (auth, file downloads, reports) are never cached.
var DefaultPolicy = respcache.TTLPolicy{
	Rules: []respcache.TTLRule{
		{PathPrefix: "/api/v1/users/me", TTL: 15 * time.Minute},
		{PathPrefix: "/api/v1/dashboard", TTL: time.Minute},
		{PathPrefix: "/api/v1/properties"},
		{PathPrefix: "/api/v1/tenants"},
		{PathPrefix: "/api/v1/contracts"},
		{PathPrefix: "/api/v1/invoices"},
		{PathPrefix: "/api/v1/tasks"},
		{PathPrefix: "/api/v1/accounts"},
		{PathPrefix: "/api/v1/technical-objects"},
	},
	Default: 5 * time.Minute,
}

// InvalidationRule declares which cached read paths a mutation under
// MutationPrefix makes stale. Keeping the mapping as data means a new
// mutation call site cannot forget to invalidate: the client applies the
// table after every successful POST, PUT, and DELETE.
type InvalidationRule struct {
	MutationPrefix string
	ReadPrefixes   []string
}

// DefaultInvalidationRules encodes the read dependencies between the ERP
// resource families: invoices feed the dashboard and the account ledger,
// tenants appear inside contracts, and so on.
var DefaultInvalidationRules = []InvalidationRule{
	{MutationPrefix: "/api/v1/invoices", ReadPrefixes: []string{"/api/v1/invoices", "/api/v1/accounts", "/api/v1/dashboard"}},
	{MutationPrefix: "/api/v1/contracts", ReadPrefixes: []string{"/api/v1/contracts", "/api/v1/dashboard"}},
	{MutationPrefix: "/api/v1/properties", ReadPrefixes: []string{"/api/v1/properties", "/api/v1/technical-objects", "/api/v1/dashboard"}},
	{MutationPrefix: "/api/v1/tenants", ReadPrefixes: []string{"/api/v1/tenants", "/api/v1/contracts"}},
	{MutationPrefix: "/api/v1/tasks", ReadPrefixes: []string{"/api/v1/tasks", "/api/v1/dashboard"}},
	{MutationPrefix: "/api/v1/accounts", ReadPrefixes: []string{"/api/v1/accounts", "/api/v1/dashboard"}},
}
