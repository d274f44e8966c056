package model

import "time"

type Asset struct {
	// Human-readable id, e.g. M-0001. Immutable.
	ID   string
	Kind Kind
	// Descriptive attributes; which ones are required depends on the kind.
	Brand    string
	Model    string
	SerialNo string
	RAM      string
	SSD      string
	Gen      string
	Series   string
	// Lifecycle status. USED if and only if AssignedTo is set.
	Status Status
	// Employee currently holding the asset.
	AssignedTo *string
	// Incremented on every write; used for conditional updates.
	Version   int64
	CreatedAt *time.Time
	UpdatedAt *time.Time
}

// Holder returns the id of the employee holding the asset, or "".
func (a *Asset) Holder() string {
	if a == nil || a.AssignedTo == nil {
		return ""
	}
	return *a.AssignedTo
}

func (a *Asset) Attribute(f Field) string {
	switch f {
	case FieldBrand:
		return a.Brand
	case FieldModel:
		return a.Model
	case FieldSerialNo:
		return a.SerialNo
	case FieldRAM:
		return a.RAM
	case FieldSSD:
		return a.SSD
	case FieldGen:
		return a.Gen
	case FieldSeries:
		return a.Series
	default:
		return ""
	}
}

// Attributes is a partial set of descriptive fields; nil means "not supplied".
type Attributes struct {
	Brand    *string
	Model    *string
	SerialNo *string
	RAM      *string
	SSD      *string
	Gen      *string
	Series   *string
}

func (a Attributes) Get(f Field) *string {
	switch f {
	case FieldBrand:
		return a.Brand
	case FieldModel:
		return a.Model
	case FieldSerialNo:
		return a.SerialNo
	case FieldRAM:
		return a.RAM
	case FieldSSD:
		return a.SSD
	case FieldGen:
		return a.Gen
	case FieldSeries:
		return a.Series
	default:
		return nil
	}
}

// Apply copies every supplied attribute onto dst.
func (a Attributes) Apply(dst *Asset) {
	set := func(p *string, v *string) {
		if v != nil {
			*p = *v
		}
	}
	set(&dst.Brand, a.Brand)
	set(&dst.Model, a.Model)
	set(&dst.SerialNo, a.SerialNo)
	set(&dst.RAM, a.RAM)
	set(&dst.SSD, a.SSD)
	set(&dst.Gen, a.Gen)
	set(&dst.Series, a.Series)
}

// Reference is a patch value for an id pointer. Set=false leaves the pointer
// alone; Set=true with an empty ID clears it.
type Reference struct {
	Set bool
	ID  string
}

func RefTo(id string) Reference { return Reference{Set: true, ID: id} }
func ClearRef() Reference       { return Reference{Set: true} }

type CreateAssetParams struct {
	Kind       Kind
	Attributes Attributes
	Status     *Status
	AssignedTo string
}

type UpdateAssetParams struct {
	Kind       Kind
	ID         string
	Attributes Attributes
	Status     *Status
	AssignedTo Reference
}

// AssetWrite is the full assignment state written to an asset in one step.
type AssetWrite struct {
	Attributes Attributes
	Status     Status
	AssignedTo *string
	// StatusSet is true when the caller asked for Status rather than it
	// being derived from the holder.
	StatusSet bool
}

type AssetsFilter struct {
	Statuses   []Status
	AssignedTo string
}

type AssetStats struct {
	Total  int64
	Store  int64
	Used   int64
	Repair int64
}
