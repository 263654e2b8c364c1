package mealdb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/cookup/gateway/internal/types"
)

// maxIngredientSlots is the number of numbered ingredient/measure pairs a meal carries
const maxIngredientSlots = 20

type record map[string]any

type shape int

const (
	shapeEmpty shape = iota
	shapeList
	shapeEnvelope
	shapeObject
)

// payload is the tagged form of a decoded response body. Sources answer with a
// bare array, an envelope ({"meals": [...]} or {"meal": {...}}) or a bare object.
type payload struct {
	shape  shape
	list   []record
	object record
}

func classify(body []byte) (payload, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return payload{shape: shapeEmpty}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	switch body[0] {
	case '[':
		var list []record
		if err := dec.Decode(&list); err != nil {
			return payload{}, fmt.Errorf("decode meal list: %w", err)
		}
		return payload{shape: shapeList, list: list}, nil
	case '{':
		var obj record
		if err := dec.Decode(&obj); err != nil {
			return payload{}, fmt.Errorf("decode meal object: %w", err)
		}
		if raw, ok := obj["meals"]; ok {
			return payload{shape: shapeEnvelope, list: asRecords(raw)}, nil
		}
		if raw, ok := obj["meal"]; ok {
			if m, ok := raw.(map[string]any); ok {
				return payload{shape: shapeEnvelope, list: []record{m}}, nil
			}
			return payload{shape: shapeEnvelope}, nil
		}
		return payload{shape: shapeObject, object: obj}, nil
	default:
		return payload{}, fmt.Errorf("unexpected response body starting with %q", body[0])
	}
}

func asRecords(v any) []record {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]record, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// normalizeSummaries turns a search response body into summaries. A bare
// object that is not an envelope carries no list and yields nothing.
func normalizeSummaries(body []byte) ([]types.MealSummary, error) {
	p, err := classify(body)
	if err != nil {
		return nil, err
	}

	out := make([]types.MealSummary, 0, len(p.list))
	for _, r := range p.list {
		if s, ok := r.summary(); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// normalizeDetail turns a lookup response body into a single meal, using the
// first element when the source answers with a list.
func normalizeDetail(body []byte) (*types.MealDetail, error) {
	p, err := classify(body)
	if err != nil {
		return nil, err
	}

	var r record
	switch p.shape {
	case shapeList, shapeEnvelope:
		if len(p.list) > 0 {
			r = p.list[0]
		}
	case shapeObject:
		r = p.object
	}
	if r == nil {
		return nil, ErrNotFound
	}

	s, ok := r.summary()
	if !ok {
		return nil, ErrNotFound
	}
	return &types.MealDetail{
		MealSummary:  s,
		Instructions: r.optional("strInstructions", "instructions"),
		Ingredients:  r.ingredients(),
	}, nil
}

func (r record) summary() (types.MealSummary, bool) {
	id := types.StringValue(r.optional("idMeal", "id"))
	if id == "" {
		return types.MealSummary{}, false
	}
	return types.MealSummary{
		ID:           id,
		Name:         types.StringValue(r.optional("strMeal", "name")),
		ThumbnailURL: r.optional("strMealThumb", "thumbnailUrl"),
		Area:         r.optional("strArea", "area"),
		Category:     r.optional("strCategory", "category"),
		Tags:         r.optional("strTags", "tags"),
	}, true
}

// optional returns the first key holding a non-blank value. Strings are
// trimmed; numbers are rendered in their JSON form.
func (r record) optional(keys ...string) *string {
	for _, k := range keys {
		var s string
		switch v := r[k].(type) {
		case string:
			s = strings.TrimSpace(v)
		case json.Number:
			s = v.String()
		case bool:
			s = strconv.FormatBool(v)
		}
		if s != "" {
			return &s
		}
	}
	return nil
}

// ingredients reads the numbered strIngredientN/strMeasureN slots in order,
// keeping only slots with a non-blank ingredient. A source may instead send a
// ready-made "ingredients" list.
func (r record) ingredients() []types.Ingredient {
	out := []types.Ingredient{}
	for i := 1; i <= maxIngredientSlots; i++ {
		name := types.StringValue(r.optional("strIngredient" + strconv.Itoa(i)))
		if name == "" {
			continue
		}
		out = append(out, types.Ingredient{
			Quantity: types.StringValue(r.optional("strMeasure" + strconv.Itoa(i))),
			Name:     name,
		})
	}
	if len(out) > 0 {
		return out
	}

	for _, item := range asRecords(r["ingredients"]) {
		name := types.StringValue(item.optional("ingredient", "name"))
		if name == "" {
			continue
		}
		out = append(out, types.Ingredient{
			Quantity: types.StringValue(item.optional("quantity", "measure")),
			Name:     name,
		})
	}
	return out
}
