package apperror

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var initOnce sync.Once

// Init makes gin's validator report json field names, so binding errors say
// start_date rather than StartDate. Safe to call from every binary.
func Init() {
	initOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(JSONFieldName)
		}
	})
}

// JSONFieldName returns the json tag name of fld, or "" for json:"-".
// Untagged fields keep their Go name.
func JSONFieldName(fld reflect.StructField) string {
	tag, ok := fld.Tag.Lookup("json")
	if !ok {
		return fld.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}
