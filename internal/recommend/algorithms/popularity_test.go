// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import (
	"context"
	"reflect"
	"testing"

	"github.com/tomtom215/cinerec/internal/recommend"
)

func TestPopularRank(t *testing.T) {
	reviews := []recommend.Review{
		review(1, 1, 1, 9, pos, ""),
		review(2, 2, 1, 9, pos, ""),
		review(3, 3, 1, 2, neg, ""),
		review(4, 2, 2, 9, pos, ""),
		review(5, 3, 2, 9, pos, ""),
		review(6, 4, 2, 9, pos, ""),
		review(7, 4, 3, 8, pos, ""),
		review(8, 5, 4, 8, pos, ""),
		review(9, 5, 5, 3, neg, ""),
		review(10, 6, 5, 3, neg, ""),
	}

	tests := []struct {
		name   string
		userID int64
		k      int
		want   []int64
	}{
		{"cold start user", 99, 5, []int64{2, 1, 3, 4}},
		{"reviewed movies excluded", 1, 5, []int64{2, 3, 4}},
		{"negative review still excludes", 5, 5, []int64{2, 1, 3}},
		{"truncated to k", 99, 2, []int64{2, 1}},
		{"zero k", 99, 0, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := popularRank(reviews, tt.userID, tt.k)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("popularRank() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPopularity_Recommend(t *testing.T) {
	store := &memoryStore{
		reviews: []recommend.Review{
			review(1, 1, 1, 9, pos, ""),
			review(2, 2, 2, 9, pos, ""),
			review(3, 3, 2, 9, pos, ""),
		},
		titles: titled(1, 2),
	}
	p := NewPopularity(store)

	res, err := p.Recommend(context.Background(), recommend.Request{UserID: 7, K: 5})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if res.Strategy != recommend.StrategyPopular {
		t.Errorf("Strategy = %q", res.Strategy)
	}
	if !reflect.DeepEqual(res.Titles, []string{"M2", "M1"}) {
		t.Errorf("Titles = %v, want [M2 M1]", res.Titles)
	}
}
