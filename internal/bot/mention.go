// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatling Contributors

package bot

import (
	"regexp"
	"strings"
)

// mentionTokenPattern builds the removal pattern for one mention token:
// the "@"-prefixed display name, consuming one trailing separator. Some
// backends echo mentions with U+2005 instead of a plain space.
func mentionTokenPattern(token string) *regexp.Regexp {
	return regexp.MustCompile(`@` + regexp.QuoteMeta(token) + `(\x{2005}|\x{0020}|$)`)
}

// ExtractMentionText removes the "@name" tokens for the structurally
// mentioned members from text and returns the remainder.
//
// The mentionedIDs list is authoritative for which tokens are eligible:
// "@name"-looking substrings that the backend did not report as mentions
// are left untouched even when they match a member. For each mentioned
// member the candidate token is the room alias when one is set, the
// global name otherwise; a member missing from the directory, or whose
// token is not literally present in the text, contributes no removal.
func ExtractMentionText(text string, members MemberDirectory, mentionedIDs []string) string {
	if len(mentionedIDs) == 0 {
		return text
	}

	for _, id := range mentionedIDs {
		member, ok := members[id]
		if !ok {
			continue
		}
		token := member.DisplayName()
		if token == "" {
			continue
		}
		text = mentionTokenPattern(token).ReplaceAllString(text, "")
	}

	return strings.TrimSpace(text)
}
