package security

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DuplicateGroup represents a group of items sharing the same password.
type DuplicateGroup struct {
	// ObjectIDs are the items with the shared password.
	ObjectIDs []int64 `json:"object_ids"`
	// Tags are the display labels, index-aligned with ObjectIDs.
	Tags []string `json:"tags"`
	// Count is the group size.
	Count int `json:"count"`
}

// findDuplicates scans item passwords for duplicate values.
// Comparison uses HMAC-SHA256 with a fresh session-local key so password
// hashes are never persisted and cannot be attacked offline. Values are
// NFC-normalized and trimmed before hashing. Groups are sorted by size,
// largest first.
func findDuplicates(records []record) ([]DuplicateGroup, error) {
	hmacKey := make([]byte, 32)
	if _, err := rand.Read(hmacKey); err != nil {
		return nil, err
	}

	byHash := make(map[string][]record)
	for _, r := range records {
		value := norm.NFC.String(strings.TrimSpace(r.item.Password))
		if value == "" {
			continue
		}
		mac := hmac.New(sha256.New, hmacKey)
		mac.Write([]byte(value))
		digest := hex.EncodeToString(mac.Sum(nil))
		byHash[digest] = append(byHash[digest], r)
	}

	var groups []DuplicateGroup
	for _, members := range byHash {
		if len(members) < 2 {
			continue
		}
		group := DuplicateGroup{Count: len(members)}
		for _, m := range members {
			group.ObjectIDs = append(group.ObjectIDs, m.item.ObjectID)
			group.Tags = append(group.Tags, m.item.Tag)
		}
		groups = append(groups, group)
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].ObjectIDs[0] < groups[j].ObjectIDs[0]
	})
	return groups, nil
}
