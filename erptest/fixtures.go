package erptest

var propertyFixtures = []map[string]any{
	{
		"id":      "prop-1",
		"name":    "Lindenhof 12",
		"city":    "Leipzig",
		"units":   8,
		"manager": "K. Brandt",
	},
	{
		"id":      "prop-2",
		"name":    "Am Stadtpark 3",
		"city":    "Dresden",
		"units":   14,
		"manager": "S. Vogel",
	},
}

var tenantFixtures = []map[string]any{
	{"id": "ten-1", "name": "Hoffmann, Petra", "property_id": "prop-1", "unit": "2b"},
	{"id": "ten-2", "name": "Yilmaz, Deniz", "property_id": "prop-1", "unit": "4a"},
	{"id": "ten-3", "name": "Krause, Martin", "property_id": "prop-2", "unit": "1c"},
}

var contractFixtures = []map[string]any{
	{
		"id":          "con-1",
		"title":       "Mietvertrag Lindenhof 12 / 2b",
		"type":        "residential",
		"status":      "active",
		"tenant_name": "Hoffmann, Petra",
		"start_date":  "2022-04-01",
	},
	{
		"id":          "con-2",
		"title":       "Gewerbevertrag Am Stadtpark 3 / EG",
		"type":        "commercial",
		"status":      "draft",
		"tenant_name": "Bäckerei Krause GmbH",
		"start_date":  "2026-10-01",
	},
}

var invoiceFixtures = []map[string]any{
	{"id": "inv-1", "status": "open", "amount": 540.0, "tenant_id": "ten-1"},
	{"id": "inv-2", "status": "paid", "amount": 1280.5, "tenant_id": "ten-3"},
}

var statsFixture = map[string]any{
	"open_invoices":    1,
	"overdue_invoices": 0,
	"vacant_units":     3,
	"active_contracts": 1,
}

var userFixture = map[string]any{
	"id":    "usr-1",
	"name":  "A. Verwalter",
	"email": "verwalter@mietwerk.example",
	"role":  "property_manager",
}
