package admin

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotRegistered  = errors.New("model not registered")
	ErrObjectNotFound = errors.New("object not found")
)

type FieldKind int

const (
	CharField FieldKind = iota
	TextField
	DecimalField
	IntegerField
	ImageField
	DateTimeField
)

// Field describes one attribute of a model. Validate, when set, runs after
// the raw form value has been parsed for the field kind.
type Field struct {
	Name      string
	Label     string
	Kind      FieldKind
	Editable  bool
	Required  bool
	MaxLength int
	// MaxDigits and DecimalPlaces bound a DecimalField. Zero means 10 and 2.
	MaxDigits     int
	DecimalPlaces int
	Validate      func(value any) error
}

// Model is what the admin knows about a record type.
type Model struct {
	AppLabel          string
	Name              string
	VerboseName       string
	VerboseNamePlural string
	Fields            []Field
	Store             Store
}

// Label is the "app.model" key.
func (m Model) Label() string {
	return m.AppLabel + "." + m.Name
}

func (m Model) Field(name string) (Field, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Values holds parsed field values keyed by field name: string for char,
// text and image fields, float64 for decimals, int for integers and
// time.Time for datetimes.
type Values map[string]any

// Object is one stored record as seen by the admin.
type Object struct {
	ID     int
	Repr   string
	Values Values
}

// DateRange selects From <= value < To on a datetime field.
type DateRange struct {
	Field string
	From  time.Time
	To    time.Time
}

type Query struct {
	Search       string
	SearchFields []string
	Ranges       []DateRange
	Offset       int
	Limit        int
}

// Store persists the objects of one model. Get, Update and Delete return
// ErrObjectNotFound for unknown ids.
type Store interface {
	List(ctx context.Context, q Query) ([]Object, int, error)
	Get(ctx context.Context, id int) (Object, error)
	Create(ctx context.Context, v Values) (Object, error)
	Update(ctx context.Context, id int, v Values) (Object, error)
	Delete(ctx context.Context, id int) error
}
