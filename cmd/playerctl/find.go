package main

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"google.golang.org/protobuf/types/known/structpb"
)

// bestMatch returns the index of the track whose "title - artist" line is the
// closest fuzzy match for query. Matching ignores case and diacritics.
func bestMatch(query string, tracks *structpb.ListValue) (int, bool) {
	values := tracks.GetValues()
	lines := lo.Map(values, func(v *structpb.Value, _ int) string {
		f := v.GetStructValue().GetFields()
		return f["title"].GetStringValue() + " - " + f["artist"].GetStringValue()
	})

	ranks := fuzzy.RankFindNormalizedFold(query, lines)
	if len(ranks) == 0 {
		return 0, false
	}
	sort.Stable(ranks)

	f := values[ranks[0].OriginalIndex].GetStructValue().GetFields()
	return int(f["index"].GetNumberValue()), true
}
