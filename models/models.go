package models

// AllModels returns all model structs for auto-migration
// IMPORTANT: Order matters! Parent tables must be created before child tables
func AllModels() []interface{} {
	return []interface{}{
		// 1. Independent tables (no foreign keys)
		&User{},
		&Product{},

		// 2. Tables with single dependencies
		&DirectorAccountExecutive{}, // depends on: User
		&Client{},                   // depends on: User
		&YearlyTarget{},             // depends on: User

		// 3. Tables with multiple dependencies
		&Opportunity{},     // depends on: Client, Product
		&QuarterlyTarget{}, // depends on: YearlyTarget, User
		&Signing{},         // depends on: Opportunity, Client, Product
		&Win{},             // depends on: Opportunity, Client, Product

		// 4. Ledger/detail tables
		&Revenue{},              // depends on: Opportunity, Client, Signing, Product
		&UpdateEvent{},          // depends on: Opportunity
		&OpportunityUpdateLog{}, // depends on: UpdateEvent
	}
}

// TableNames returns table names in reverse dependency order, safe for deletes
func TableNames() []string {
	return []string{
		"opportunityupdatelog",
		"updateevent",
		"revenue",
		"win",
		"signing",
		"quarterlytarget",
		"opportunity",
		"yearlytarget",
		"client",
		"directoraccountexecutive",
		"product",
		"user",
	}
}
