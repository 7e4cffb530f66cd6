/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package model

import "strings"

// MemberSearchCondition is the optional filter set of a member search.
// Empty strings and nil ages mean "no constraint".
type MemberSearchCondition struct {
	Username string `form:"username" json:"username,omitempty"`
	TeamName string `form:"teamName" json:"teamName,omitempty"`
	AgeGoe   *int   `form:"ageGoe" json:"ageGoe,omitempty"`
	AgeLoe   *int   `form:"ageLoe" json:"ageLoe,omitempty"`
}

// HasUsername reports whether the username filter carries text.
func (c *MemberSearchCondition) HasUsername() bool { return hasText(c.Username) }

// HasTeamName reports whether the team name filter carries text.
func (c *MemberSearchCondition) HasTeamName() bool { return hasText(c.TeamName) }

// Matches evaluates the condition against a flat row in memory.
func (c *MemberSearchCondition) Matches(row *MemberTeamDto) bool {
	if c.HasUsername() && row.Username != c.Username {
		return false
	}
	if c.HasTeamName() && (row.TeamName == nil || *row.TeamName != c.TeamName) {
		return false
	}
	if c.AgeGoe != nil && row.Age < *c.AgeGoe {
		return false
	}
	if c.AgeLoe != nil && row.Age > *c.AgeLoe {
		return false
	}
	return true
}

// MemberTeamDto is the flat member/team projection returned by searches.
type MemberTeamDto struct {
	MemberID int64   `bun:"member_id" json:"memberId"`
	Username string  `bun:"username" json:"username"`
	Age      int     `bun:"age" json:"age"`
	TeamID   *int64  `bun:"team_id" json:"teamId"`
	TeamName *string `bun:"team_name" json:"teamName"`
}

func hasText(s string) bool {
	return strings.TrimSpace(s) != ""
}
