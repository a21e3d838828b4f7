package model

// All 需要迁移的全部表
func All() []any {
	return []any{
		&User{},
		&LinkedAccount{},
		&Metrics{},
		&MetricSnapshot{},
		&Clip{},
		&Achievement{},
	}
}
