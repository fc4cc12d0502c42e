// File: internal/campaign/target.go
package campaign

import (
	"context"
	"strings"
)

// TargetKind classifies how a search-result row can be engaged.
type TargetKind int

const (
	// TargetConnect rows expose a Connect control that opens the request
	// modal inline.
	TargetConnect TargetKind = iota
	// TargetFollow rows only expose a Follow control; the request has to
	// go through the profile page instead.
	TargetFollow
)

func (k TargetKind) String() string {
	if k == TargetFollow {
		return "follow"
	}
	return "connect"
}

// Target is one engageable search result: the invite control and how to
// engage it.
type Target struct {
	Ref  ElementRef
	Kind TargetKind
}

// classifyTargets reads each invite control's text to decide the engagement
// path. Controls whose text reads neither Connect nor Follow are dropped;
// rows can mutate between discovery and classification.
func classifyTargets(ctx context.Context, s Session, refs []ElementRef) []Target {
	targets := make([]Target, 0, len(refs))
	for _, ref := range refs {
		text, err := s.Text(ctx, ref)
		if err != nil {
			continue
		}
		switch strings.TrimSpace(text) {
		case "Connect":
			targets = append(targets, Target{Ref: ref, Kind: TargetConnect})
		case "Follow":
			targets = append(targets, Target{Ref: ref, Kind: TargetFollow})
		}
	}
	return targets
}
