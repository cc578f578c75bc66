package entity

// Models lists every persisted model, in AutoMigrate order.
func Models() []interface{} {
	return []interface{}{
		&Industry{},
		&Stock{},
		&PriceSnapshot{},
		&SyncRun{},
	}
}
