package admin

import (
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const maxUploadBytes = 10 << 20

type formField struct {
	Name       string
	Label      string
	Widget     string
	Value      string
	Required   bool
	MaxLength  int
	Error      string
	CurrentURL string
}

type formFieldset struct {
	Label  string
	Fields []formField
}

// fieldsets falls back to every editable field when none are declared.
func fieldsets(m Model, a ModelAdmin) []Fieldset {
	if len(a.Fieldsets) > 0 {
		return a.Fieldsets
	}
	fs := Fieldset{}
	for _, f := range m.Fields {
		if f.Editable {
			fs.Fields = append(fs.Fields, f.Name)
		}
	}
	return []Fieldset{fs}
}

func widget(k FieldKind) string {
	switch k {
	case TextField:
		return "textarea"
	case DecimalField:
		return "decimal"
	case IntegerField:
		return "integer"
	case ImageField:
		return "file"
	case DateTimeField:
		return "datetime"
	}
	return "text"
}

// buildForm lays out the change form. raw carries submitted strings that
// take precedence over stored values when a form is redisplayed.
func (s *Site) buildForm(m Model, a ModelAdmin, values Values, raw map[string]string, errs map[string]string) []formFieldset {
	var out []formFieldset
	for _, fs := range fieldsets(m, a) {
		group := formFieldset{Label: fs.Label}
		for _, name := range fs.Fields {
			f, _ := m.Field(name)
			ff := formField{
				Name:      f.Name,
				Label:     f.Label,
				Widget:    widget(f.Kind),
				Required:  f.Required,
				MaxLength: f.MaxLength,
				Error:     errs[f.Name],
			}
			if v, ok := raw[f.Name]; ok {
				ff.Value = v
			} else {
				ff.Value = formatInput(f, values[f.Name])
			}
			if f.Kind == ImageField {
				if p, _ := values[f.Name].(string); p != "" {
					ff.Value = p
					ff.CurrentURL = s.mediaURL + p
				}
			}
			group.Fields = append(group.Fields, ff)
		}
		out = append(out, group)
	}
	return out
}

// parseForm reads the submitted fieldset fields. Image fields keep the
// existing value unless a file is uploaded or "<name>-clear" is checked.
// Uploads are stored only once every field is valid.
func (s *Site) parseForm(r *http.Request, m Model, a ModelAdmin, existing Values) (Values, map[string]string, map[string]string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, nil, nil, fmt.Errorf("parse form: %w", err)
	}

	values := Values{}
	raw := map[string]string{}
	errs := map[string]string{}
	uploads := map[string]*multipart.FileHeader{}

	a.Fieldsets = fieldsets(m, a)
	for _, name := range a.FormFields() {
		f, _ := m.Field(name)

		if f.Kind == ImageField {
			v, fh, err := parseUpload(r, f, existing)
			if err != nil {
				errs[f.Name] = err.Error()
				continue
			}
			if fh != nil {
				uploads[f.Name] = fh
				continue
			}
			values[f.Name] = v
			continue
		}

		input := strings.TrimSpace(r.FormValue(f.Name))
		if f.Kind == TextField {
			input = r.FormValue(f.Name)
		}
		raw[f.Name] = input

		v, err := parseValue(f, input)
		if err != nil {
			errs[f.Name] = err.Error()
			continue
		}
		if f.Validate != nil {
			if err := f.Validate(v); err != nil {
				errs[f.Name] = err.Error()
				continue
			}
		}
		values[f.Name] = v
	}

	if len(errs) > 0 {
		return values, raw, errs, nil
	}
	for name, fh := range uploads {
		p, err := s.storeUpload(m, fh)
		if err != nil {
			s.logger.Error("failed to store upload", "field", name, "error", err)
			errs[name] = "Não foi possível salvar o arquivo enviado."
			continue
		}
		values[name] = p
	}
	return values, raw, errs, nil
}

// parseUpload returns either the value to keep or the file to store.
func parseUpload(r *http.Request, f Field, existing Values) (string, *multipart.FileHeader, error) {
	current, _ := existing[f.Name].(string)

	if r.MultipartForm != nil {
		if files := r.MultipartForm.File[f.Name]; len(files) > 0 {
			fh := files[0]
			if !isImage(fh.Header.Get("Content-Type"), fh.Filename) {
				return "", nil, errors.New("Envie uma imagem válida.")
			}
			return "", fh, nil
		}
	}

	if r.FormValue(f.Name+"-clear") != "" {
		if f.Required {
			return "", nil, errors.New("Este campo é obrigatório.")
		}
		return "", nil, nil
	}
	if current == "" && f.Required {
		return "", nil, errors.New("Este campo é obrigatório.")
	}
	return current, nil, nil
}

func (s *Site) storeUpload(m Model, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	return s.files.Save(m.AppLabel, fh.Filename, src)
}

func isImage(contentType, filename string) bool {
	if strings.HasPrefix(contentType, "image/") {
		return true
	}
	switch strings.ToLower(filenameExt(filename)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return true
	}
	return false
}

func filenameExt(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}

func parseValue(f Field, input string) (any, error) {
	if input == "" {
		if f.Required {
			return nil, errors.New("Este campo é obrigatório.")
		}
		switch f.Kind {
		case DecimalField:
			return float64(0), nil
		case IntegerField:
			return 0, nil
		}
		return "", nil
	}

	switch f.Kind {
	case DecimalField:
		return parseDecimal(f, input)
	case IntegerField:
		v, err := strconv.Atoi(input)
		if err != nil {
			return nil, errors.New("Informe um número inteiro.")
		}
		return v, nil
	case DateTimeField:
		v, err := time.ParseInLocation("2006-01-02T15:04", input, time.Local)
		if err != nil {
			return nil, errors.New("Informe uma data/hora válida.")
		}
		return v, nil
	}

	if f.MaxLength > 0 && utf8.RuneCountInString(input) > f.MaxLength {
		return nil, fmt.Errorf("Certifique-se de que o valor tenha no máximo %d caracteres (ele possui %d).", f.MaxLength, utf8.RuneCountInString(input))
	}
	return input, nil
}

// parseDecimal accepts plain notation only, with a comma or a dot as the
// decimal separator, within the field's digit limits.
func parseDecimal(f Field, input string) (float64, error) {
	maxDigits, places := f.MaxDigits, f.DecimalPlaces
	if maxDigits == 0 && places == 0 {
		maxDigits, places = 10, 2
	}

	normalized := strings.Replace(input, ",", ".", 1)
	digits := strings.TrimLeft(normalized, "+-")
	if len(normalized)-len(digits) > 1 {
		return 0, errors.New("Informe um número.")
	}
	whole, frac, _ := strings.Cut(digits, ".")
	if whole == "" && frac == "" || !onlyDigits(whole) || !onlyDigits(frac) {
		return 0, errors.New("Informe um número.")
	}

	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("Informe um número.")
	}

	frac = strings.TrimRight(frac, "0")
	whole = strings.TrimLeft(whole, "0")
	if len(whole)+len(frac) > maxDigits {
		return 0, fmt.Errorf("Certifique-se de que não tenha mais de %d dígitos no total.", maxDigits)
	}
	if len(frac) > places {
		return 0, fmt.Errorf("Certifique-se de que não tenha mais de %d casas decimais.", places)
	}
	if len(whole) > maxDigits-places {
		return 0, fmt.Errorf("Certifique-se de que não tenha mais de %d dígitos antes do ponto decimal.", maxDigits-places)
	}
	return v, nil
}

func onlyDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// formatInput renders a stored value the way its input element expects it.
func formatInput(f Field, v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(val, 'f', 2, 64)
	case int:
		return strconv.Itoa(val)
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format("2006-01-02T15:04")
	case string:
		return val
	}
	return fmt.Sprint(v)
}

// formatDisplay renders a stored value for listings.
func formatDisplay(f Field, v any) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case float64:
		return strings.Replace(strconv.FormatFloat(val, 'f', 2, 64), ".", ",", 1)
	case time.Time:
		if val.IsZero() {
			return "-"
		}
		return val.Format("02/01/2006 15:04")
	case string:
		if val == "" {
			return "-"
		}
		return val
	}
	return fmt.Sprint(v)
}
