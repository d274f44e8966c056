package model

import (
	"fmt"
	"strings"
)

type Kind string

const (
	KindMouse    Kind = "mouse"
	KindKeyboard Kind = "keyboard"
	KindPC       Kind = "pc"
	KindLaptop   Kind = "laptop"
	KindHeadset  Kind = "heatset"
	KindPhone    Kind = "phone"
	KindMonitor  Kind = "monitor"
)

// KindSpec describes how one asset kind is stored, numbered and validated.
type KindSpec struct {
	Kind Kind
	// Prefix of generated ids, e.g. "M" for M-0001.
	Prefix string
	// Collection holding assets of this kind.
	Collection string
	// CounterKey is the namespace in the counters collection.
	CounterKey string
	// Required lists descriptive fields that must be non-empty on create.
	Required []Field
}

type Field string

const (
	FieldBrand    Field = "brand"
	FieldModel    Field = "model"
	FieldSerialNo Field = "serial_no"
	FieldRAM      Field = "ram"
	FieldSSD      Field = "ssd"
	FieldGen      Field = "gen"
	FieldSeries   Field = "series"
)

var (
	peripheralFields = []Field{FieldBrand, FieldModel}
	computerFields   = []Field{FieldBrand, FieldRAM, FieldSSD, FieldGen}
)

var kindSpecs = []KindSpec{
	{Kind: KindMouse, Prefix: "M", Required: peripheralFields},
	{Kind: KindKeyboard, Prefix: "K", Required: peripheralFields},
	{Kind: KindPC, Prefix: "P", Required: computerFields},
	{Kind: KindLaptop, Prefix: "L", Required: computerFields},
	{Kind: KindHeadset, Prefix: "H", Required: peripheralFields},
	{Kind: KindPhone, Prefix: "PN", Required: peripheralFields},
	{Kind: KindMonitor, Prefix: "MN", Required: peripheralFields},
}

func init() {
	for i := range kindSpecs {
		k := string(kindSpecs[i].Kind)
		kindSpecs[i].Collection = k + "_asset"
		kindSpecs[i].CounterKey = k + "_id"
	}
}

// Kinds returns every asset kind in a stable order.
func Kinds() []Kind {
	out := make([]Kind, len(kindSpecs))
	for i := range kindSpecs {
		out[i] = kindSpecs[i].Kind
	}
	return out
}

func KindSpecs() []KindSpec {
	return append([]KindSpec(nil), kindSpecs...)
}

func SpecOf(k Kind) (KindSpec, error) {
	for i := range kindSpecs {
		if kindSpecs[i].Kind == k {
			return kindSpecs[i], nil
		}
	}
	return KindSpec{}, fmt.Errorf("%w: %q", ErrUnknownKind, string(k))
}

// ParseKind accepts the wire name case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, err := SpecOf(k); err != nil {
		return "", err
	}
	return k, nil
}

// IDField is the employee field that points at an asset of this kind.
func (k Kind) IDField() string { return string(k) + "_id" }

// StatusField is the employee field caching the status of the held asset.
func (k Kind) StatusField() string { return string(k) + "_status" }

const (
	EmployeeIDPrefix   = "E"
	EmployeeCounterKey = "employee_id"
)
