package service

import (
	"sort"
	"strings"
	"time"

	"chronoplan/internal/scheduling/models"
)

// dateTimeUpdatedMessage is the fixed notice emitted when either instant
// moved. It does not restate old or new values, and the wording covers start
// changes too.
const dateTimeUpdatedMessage = "End date/time updated"

const profilesChangedPrefix = "Profiles changed to: "

// detectChanges diffs a stored event against the proposed replacement and
// returns human-readable change messages, in fixed rule order:
//
//  1. start or end instant differs (compared as absolute instants, never as
//     formatted strings) — one fixed-text notice
//  2. profile id set differs (unordered comparison) — one message naming the
//     new profiles, in the order they were resolved from the registry
//
// Title and description edits produce no message. Equal input yields nil.
func detectChanges(previous *models.Event, newStart, newEnd time.Time, newProfiles []models.Profile) []string {
	var messages []string

	if !previous.StartTime.Equal(newStart) || !previous.EndTime.Equal(newEnd) {
		messages = append(messages, dateTimeUpdatedMessage)
	}

	if !sameIDSet(previous.Profiles, newProfiles) {
		names := make([]string, len(newProfiles))
		for i, p := range newProfiles {
			names[i] = p.Name
		}
		messages = append(messages, profilesChangedPrefix+strings.Join(names, ", "))
	}

	return messages
}

// sameIDSet compares the two profile sets ignoring order, via sorted id
// strings so the comparison is deterministic.
func sameIDSet(a, b []models.Profile) bool {
	if len(a) != len(b) {
		return false
	}
	as := make([]string, len(a))
	bs := make([]string, len(b))
	for i := range a {
		as[i] = a[i].ID.String()
	}
	for i := range b {
		bs[i] = b[i].ID.String()
	}
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
