package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/tallymatic/tallymatic-api/types"
)

// ShapeOne wraps a record under the resource's singular key.
func ShapeOne(resource types.ResourceDescriptor, record any) types.Envelope {
	return types.Envelope{Key: resource.Singular, Record: record}
}

// ShapeList builds the list envelope of a page. Projection is applied to copies,
// so records are never modified.
func ShapeList[T any](resource types.ResourceDescriptor, page *types.Page[T], projection []types.ProjectionField) (types.ListEnvelope, error) {
	records := page.Items
	if page.Limit > 0 && len(records) > page.Limit {
		records = records[:page.Limit]
	}

	items := make([]any, 0, len(records))
	for i := range records {
		item, err := project(records[i], projection)
		if err != nil {
			return types.ListEnvelope{}, err
		}
		items = append(items, item)
	}

	count := page.Count
	if count < int64(len(items)) {
		count = int64(len(items))
	}
	return types.ListEnvelope{
		Key:    resource.Plural,
		Items:  items,
		Count:  count,
		Offset: max(page.Offset, 0),
		Limit:  page.Limit,
	}, nil
}

// ShapeDeleted is the confirmation returned for a delete.
func ShapeDeleted(resource types.ResourceDescriptor, id fmt.Stringer) types.DeleteEnvelope {
	return types.DeleteEnvelope{ID: id.String(), Object: resource.Object, Deleted: true}
}

// project applies projectBy terms to the JSON form of record. Any included field
// switches to allow-list mode; hidden fields are removed afterwards. The id is
// always kept.
func project(record any, projection []types.ProjectionField) (any, error) {
	if len(projection) == 0 {
		return record, nil
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("project record: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("project record: %w", err)
	}

	include := map[string]bool{}
	for _, p := range projection {
		if p.Include {
			include[p.Field] = true
		}
	}
	if len(include) > 0 {
		for name := range fields {
			if name != "id" && !include[name] {
				delete(fields, name)
			}
		}
	}
	for _, p := range projection {
		if !p.Include && p.Field != "id" {
			delete(fields, p.Field)
		}
	}
	return fields, nil
}
