package schema

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jacentio/lattice/internal/fieldpath"
)

// decorateResponse decorates the response payload in place: each record is
// enriched through the requested extensions and optionally pruned to the
// requested base attributes.
func (s *Schema) decorateResponse(ctx context.Context, resp *Response, fields []string, extra map[string]any) error {
	folded := fieldpath.Fold(fields)

	if resp.Items != nil {
		items := make([]Item, len(resp.Items))
		for i, item := range resp.Items {
			decorated, err := s.decorate(ctx, item, folded, extra)
			if err != nil {
				return err
			}
			items[i] = decorated
		}
		resp.Items = items
		return nil
	}

	decorated, err := s.decorate(ctx, resp.Item, folded, extra)
	if err != nil {
		return err
	}
	resp.Item = decorated
	return nil
}

// decorate enriches one record.
//
// Every top-level key of fields names a registered extension, except the
// reserved key equal to the table's own name: that one is an allow-list of
// base attributes to keep. Extensions run concurrently, one goroutine per
// requested name, and are joined before the merged record is returned.
// Workers never write the record directly; each result lands under its own
// key after the join, so no ordering across extensions is observable.
func (s *Schema) decorate(ctx context.Context, item Item, fields map[string][]string, extra map[string]any) (Item, error) {
	record := make(Item, len(item))
	for name, value := range item {
		record[name] = value
	}

	baseFields, prune := fields[s.table.Name()]

	names := make([]string, 0, len(fields))
	for name := range fields {
		if name == s.table.Name() {
			continue
		}
		if _, ok := s.extensions[name]; !ok {
			continue
		}
		names = append(names, name)
	}

	results := make([]any, len(names))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			value, err := s.extensions[name](ctx, record, fields[name], extra)
			if err != nil {
				return fmt.Errorf("extension %s: %w", name, err)
			}
			results[i] = value
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if !prune {
		for i, name := range names {
			record[name] = results[i]
		}
		return record, nil
	}

	pruned := make(Item, len(baseFields)+len(names))
	for _, name := range baseFields {
		if value, ok := record[name]; ok {
			pruned[name] = value
		}
	}
	for i, name := range names {
		pruned[name] = results[i]
	}
	return pruned, nil
}
