package converter

import (
	"strings"

	"github.com/samber/lo"

	"github.com/you-humble/asset-tracker/internal/model"
	"github.com/you-humble/asset-tracker/internal/transport/http/dto"
)

func attributesFromFields(f dto.Fields) (model.Attributes, error) {
	var (
		attrs model.Attributes
		err   error
	)
	targets := []struct {
		field model.Field
		dst   **string
	}{
		{model.FieldBrand, &attrs.Brand},
		{model.FieldModel, &attrs.Model},
		{model.FieldSerialNo, &attrs.SerialNo},
		{model.FieldRAM, &attrs.RAM},
		{model.FieldSSD, &attrs.SSD},
		{model.FieldGen, &attrs.Gen},
		{model.FieldSeries, &attrs.Series},
	}
	for _, t := range targets {
		if *t.dst, err = f.String(string(t.field)); err != nil {
			return model.Attributes{}, err
		}
	}
	return attrs, nil
}

func statusFromFields(f dto.Fields) (*model.Status, error) {
	s, err := f.String("status")
	if err != nil || s == nil {
		return nil, err
	}
	st := model.Status(strings.TrimSpace(*s))
	return &st, nil
}

func CreateAssetRequestToParams(kind model.Kind, f dto.Fields) (model.CreateAssetParams, error) {
	attrs, err := attributesFromFields(f)
	if err != nil {
		return model.CreateAssetParams{}, err
	}
	status, err := statusFromFields(f)
	if err != nil {
		return model.CreateAssetParams{}, err
	}
	_, holder, err := f.Ref("assigned_to")
	if err != nil {
		return model.CreateAssetParams{}, err
	}

	return model.CreateAssetParams{
		Kind:       kind,
		Attributes: attrs,
		Status:     status,
		AssignedTo: holder,
	}, nil
}

func UpdateAssetRequestToParams(kind model.Kind, id string, f dto.Fields) (model.UpdateAssetParams, error) {
	attrs, err := attributesFromFields(f)
	if err != nil {
		return model.UpdateAssetParams{}, err
	}
	status, err := statusFromFields(f)
	if err != nil {
		return model.UpdateAssetParams{}, err
	}
	set, holder, err := f.Ref("assigned_to")
	if err != nil {
		return model.UpdateAssetParams{}, err
	}

	return model.UpdateAssetParams{
		Kind:       kind,
		ID:         id,
		Attributes: attrs,
		Status:     status,
		AssignedTo: model.Reference{Set: set, ID: holder},
	}, nil
}

func AssetToDTO(a *model.Asset) dto.Asset {
	return dto.Asset{
		ID:         a.ID,
		Kind:       string(a.Kind),
		Brand:      lo.EmptyableToPtr(a.Brand),
		Model:      lo.EmptyableToPtr(a.Model),
		SerialNo:   lo.EmptyableToPtr(a.SerialNo),
		RAM:        lo.EmptyableToPtr(a.RAM),
		SSD:        lo.EmptyableToPtr(a.SSD),
		Gen:        lo.EmptyableToPtr(a.Gen),
		Series:     lo.EmptyableToPtr(a.Series),
		Status:     string(a.Status),
		AssignedTo: a.AssignedTo,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func AssetsToDTO(in []*model.Asset) []dto.Asset {
	out := make([]dto.Asset, 0, len(in))
	for _, a := range in {
		out = append(out, AssetToDTO(a))
	}
	return out
}

func AssetStatsToDTO(st model.AssetStats) dto.AssetStats {
	return dto.AssetStats{
		Total:  st.Total,
		Store:  st.Store,
		Used:   st.Used,
		Repair: st.Repair,
	}
}
