package models

// All returns every persistence model in dependency order, for AutoMigrate
func All() []any {
	return []any{
		&AdminModel{},
		&CustomerModel{},
		&CategoryModel{},
		&AttributeModel{},
		&AttributeValueModel{},
		&AttributeSetModel{},
		&AttributeSetItem{},
		&UploadedImageModel{},
	}
}
