package services

import (
	"context"
	"strings"

	"mappamentis/domain/core/entities"
	"mappamentis/domain/core/valueobjects"
)

// SearchNodesByContent returns nodes whose content contains the keyword, ignoring case
// A blank keyword matches nothing.
func (s *MindMapService) SearchNodesByContent(ctx context.Context, mapID valueobjects.MapID, keyword string) ([]*entities.MindNode, error) {
	mindMap, err := s.maps.Load(ctx, mapID)
	if err != nil {
		return nil, err
	}

	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return []*entities.MindNode{}, nil
	}

	matches := []*entities.MindNode{}
	for _, node := range mindMap.Nodes() {
		if !strings.Contains(strings.ToLower(node.Content()), keyword) {
			continue
		}
		matches = append(matches, node)
		if limit := s.config.MaxSearchResults; limit > 0 && len(matches) >= limit {
			break
		}
	}

	return matches, nil
}

// GetChildNodes returns the targets of the parent's outgoing links
func (s *MindMapService) GetChildNodes(ctx context.Context, mapID valueobjects.MapID, parentID valueobjects.NodeID) ([]*entities.MindNode, error) {
	mindMap, err := s.maps.Load(ctx, mapID)
	if err != nil {
		return nil, err
	}

	children := []*entities.MindNode{}
	seen := make(map[valueobjects.NodeID]struct{})
	for _, link := range mindMap.LinksFrom(parentID) {
		if _, dup := seen[link.TargetID()]; dup {
			continue
		}
		seen[link.TargetID()] = struct{}{}
		if child, ok := mindMap.Node(link.TargetID()); ok {
			children = append(children, child)
		}
	}

	return children, nil
}
