package utils

import (
	"reflect"
	"strings"
)

type DBTag struct {
	Column        string
	ReadOnly      bool
	PrimaryKey    bool
	AutoIncrement bool
}

func ParseTag(tagString reflect.StructTag) DBTag {
	parts := strings.Split(tagString.Get("db"), ",")

	tag := DBTag{}

	for i, part := range parts {
		if i == 0 {
			tag.Column = strings.TrimSpace(part)
			continue
		}

		switch part {
		case "readOnly":
			tag.ReadOnly = true
		case "primaryKey":
			tag.PrimaryKey = true
		case "autoIncrement":
			tag.AutoIncrement = true
		}
	}

	if tag.Column == "-" {
		tag.Column = ""
	}

	return tag
}

// LoopOverStructFields calls fieldHandler for every exported field that has a
// db column, dereferencing a pointer to struct first.
func LoopOverStructFields(value reflect.Value, fieldHandler func(tag DBTag, fieldDefinition reflect.StructField, fieldValue reflect.Value) error) error {
	if value.Kind() == reflect.Pointer {
		value = value.Elem()
	}

	for i := range value.NumField() {
		fieldValue := value.Field(i)
		fieldDefinition := value.Type().Field(i)

		if !fieldDefinition.IsExported() {
			continue
		}

		tag := ParseTag(fieldDefinition.Tag)
		if tag.Column == "" {
			continue
		}

		if err := fieldHandler(tag, fieldDefinition, fieldValue); err != nil {
			return err
		}
	}

	return nil
}
