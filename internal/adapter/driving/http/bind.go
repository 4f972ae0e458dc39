package httphandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// maxBodyBytes caps request bodies. A maximum-length comment plus its
// metadata fits comfortably.
const maxBodyBytes = 1 << 20

var (
	validateOnce sync.Once
	validate     *validator.Validate
	translator   ut.Translator
)

// validatorInstance returns the shared validator with english translations,
// reporting fields by their json names.
func validatorInstance() (*validator.Validate, ut.Translator) {
	validateOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		translator, _ = uni.GetTranslator("en")

		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})
		_ = en_translations.RegisterDefaultTranslations(validate, translator)
	})
	return validate, translator
}

// decodeJSON reads a single JSON document from r into dst and validates it.
// Unknown fields are ignored: hook payloads carry the full comment record.
// The returned error message is safe to show to the client.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return errors.New("unexpected trailing data")
	}

	v, trans := validatorInstance()
	if err := v.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return errors.New(verrs[0].Translate(trans))
		}
		return errors.New("validation error")
	}
	return nil
}
