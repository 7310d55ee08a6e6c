package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"trovo/internal/domain"
)

// DefaultRecentLimit is the number of entries the recent listing
// returns when the caller does not ask for a specific count.
const DefaultRecentLimit = 10

// Breadcrumb resolves the display path for a spot: "Room > Container >
// Label". Missing ancestors shorten the path instead of failing: an
// orphaned spot yields its label alone and an unknown spot id yields
// the empty string. Only a store failure produces an error.
func (s *Inventory) Breadcrumb(ctx context.Context, spotID int64) (string, error) {
	spot, err := s.spots.GetByID(ctx, spotID)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	container, err := s.containers.GetByID(ctx, spot.ContainerID)
	if errors.Is(err, domain.ErrNotFound) {
		return spot.Label, nil
	}
	if err != nil {
		return "", err
	}

	room, err := s.rooms.GetByID(ctx, container.RoomID)
	if errors.Is(err, domain.ErrNotFound) {
		return container.Name + " > " + spot.Label, nil
	}
	if err != nil {
		return "", err
	}

	return room.Name + " > " + container.Name + " > " + spot.Label, nil
}

// Lookup resolves a spot code (scanned or typed) to the spot and its
// breadcrumb.
func (s *Inventory) Lookup(ctx context.Context, code string) (*domain.Spot, string, error) {
	spot, err := s.spots.GetByCode(ctx, code)
	if err != nil {
		return nil, "", err
	}
	crumb, err := s.Breadcrumb(ctx, spot.ID)
	if err != nil {
		return nil, "", err
	}
	return spot, crumb, nil
}

// Search scans items (name, tags, keywords, category) and documents
// (title, tags, type, person) for the query as a substring, resolves a
// breadcrumb and spot code for every match, and returns the merged list
// most recently modified first. A blank query returns nothing. A record
// whose spot cannot be resolved is logged and dropped; a store failure
// is returned so callers can tell "nothing matched" from "search broke".
func (s *Inventory) Search(ctx context.Context, query string) ([]*domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	items, err := s.items.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("item search failed: %w", err)
	}
	documents, err := s.documents.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("document search failed: %w", err)
	}

	results := make([]*domain.SearchResult, 0, len(items)+len(documents))
	for _, item := range items {
		r, ok := s.resolveResult(ctx, item.ID, item.Name, domain.KindItem, item.SpotID, item.UpdatedAt)
		if ok {
			results = append(results, r)
		}
	}
	for _, doc := range documents {
		r, ok := s.resolveResult(ctx, doc.ID, doc.Title, domain.KindDocument, doc.SpotID, doc.UpdatedAt)
		if ok {
			results = append(results, r)
		}
	}

	sortByRecency(results)
	return results, nil
}

// resolveResult attaches location info to one raw match. Failures are
// logged and reported as not-ok so one bad record never sinks the whole
// search.
func (s *Inventory) resolveResult(ctx context.Context, id int64, title string, kind domain.EntryKind, spotID int64, updatedAt time.Time) (*domain.SearchResult, bool) {
	spot, err := s.spots.GetByID(ctx, spotID)
	if err != nil {
		s.logger.Warn("skipping search result with unresolvable spot",
			"kind", string(kind), "id", id, "spot_id", spotID, "error", err)
		return nil, false
	}
	crumb, err := s.Breadcrumb(ctx, spotID)
	if err != nil {
		s.logger.Warn("skipping search result with unresolvable breadcrumb",
			"kind", string(kind), "id", id, "spot_id", spotID, "error", err)
		return nil, false
	}

	return &domain.SearchResult{
		ID:         id,
		Title:      title,
		Kind:       kind,
		SpotID:     spotID,
		SpotCode:   spot.Code,
		Breadcrumb: crumb,
		UpdatedAt:  updatedAt,
	}, true
}

// SearchSpots matches spots by label or code substring.
func (s *Inventory) SearchSpots(ctx context.Context, query string) ([]*domain.Spot, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	return s.spots.Search(ctx, query)
}

// RecentEntries merges the limit most recently modified items and
// documents, newest first, truncated to limit. Records whose location
// cannot be resolved are dropped, same as in Search.
func (s *Inventory) RecentEntries(ctx context.Context, limit int) ([]*domain.RecentEntry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	items, err := s.items.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent items failed: %w", err)
	}
	documents, err := s.documents.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent documents failed: %w", err)
	}

	entries := make([]*domain.RecentEntry, 0, len(items)+len(documents))
	for _, item := range items {
		crumb, err := s.Breadcrumb(ctx, item.SpotID)
		if err != nil {
			s.logger.Warn("skipping recent item", "item_id", item.ID, "error", err)
			continue
		}
		entries = append(entries, &domain.RecentEntry{
			ID: item.ID, Title: item.Name, Kind: domain.KindItem,
			Breadcrumb: crumb, UpdatedAt: item.UpdatedAt,
		})
	}
	for _, doc := range documents {
		crumb, err := s.Breadcrumb(ctx, doc.SpotID)
		if err != nil {
			s.logger.Warn("skipping recent document", "document_id", doc.ID, "error", err)
			continue
		}
		entries = append(entries, &domain.RecentEntry{
			ID: doc.ID, Title: doc.Title, Kind: domain.KindDocument,
			Breadcrumb: crumb, UpdatedAt: doc.UpdatedAt,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Favorites lists starred containers and spots with their breadcrumbs.
func (s *Inventory) Favorites(ctx context.Context) ([]*domain.Favorite, error) {
	containers, err := s.containers.ListFavorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("favorite containers failed: %w", err)
	}
	spots, err := s.spots.ListFavorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("favorite spots failed: %w", err)
	}

	favorites := make([]*domain.Favorite, 0, len(containers)+len(spots))
	for _, c := range containers {
		crumb := c.Name
		if room, err := s.rooms.GetByID(ctx, c.RoomID); err == nil {
			crumb = room.Name + " > " + c.Name
		}
		favorites = append(favorites, &domain.Favorite{
			ID: c.ID, Name: c.Name, Kind: domain.FavoriteContainer, Breadcrumb: crumb,
		})
	}
	for _, spot := range spots {
		crumb, err := s.Breadcrumb(ctx, spot.ID)
		if err != nil {
			s.logger.Warn("skipping favorite spot", "spot_id", spot.ID, "error", err)
			continue
		}
		favorites = append(favorites, &domain.Favorite{
			ID: spot.ID, Name: spot.Label, Kind: domain.FavoriteSpot, Breadcrumb: crumb,
		})
	}

	return favorites, nil
}

func sortByRecency(results []*domain.SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].UpdatedAt.After(results[j].UpdatedAt)
	})
}
