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

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Member belongs to at most one team.
type Member struct {
	bun.BaseModel `bun:"table:members,alias:member"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	Username string `bun:"username,notnull" json:"username"`
	Age      int    `bun:"age,notnull" json:"age"`
	TeamID   *int64 `bun:"team_id" json:"team_id,omitempty"`
	Team     *Team  `bun:"rel:belongs-to,join:team_id=id" json:"team,omitempty"`
}

var _ bun.BeforeAppendModelHook = (*Member)(nil)

// NewMember creates a member and, when team is not nil, attaches it to the team.
func NewMember(username string, age int, team *Team) *Member {
	m := &Member{Username: username, Age: age}
	if team != nil {
		m.ChangeTeam(team)
	}
	return m
}

// ChangeTeam moves the member to team, keeping both sides of the association
// in sync. A nil team detaches the member.
func (m *Member) ChangeTeam(team *Team) {
	if m.Team == team {
		return
	}
	if m.Team != nil {
		m.Team.removeMember(m)
	}
	m.Team = team
	if team == nil {
		m.TeamID = nil
		return
	}
	team.Members = append(team.Members, m)
	// an unsaved team has no id yet; the insert hook fills it in later
	m.TeamID = nil
	m.syncTeamID()
}

// BeforeAppendModel copies the team's identifier into the foreign key column,
// since the team may have been persisted after ChangeTeam was called.
func (m *Member) BeforeAppendModel(_ context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery, *bun.UpdateQuery:
		m.syncTeamID()
	}
	return nil
}

func (m *Member) syncTeamID() {
	if m.Team == nil || m.Team.ID == 0 {
		return
	}
	id := m.Team.ID
	m.TeamID = &id
}

func (m *Member) String() string {
	return fmt.Sprintf("Member(id=%d, username=%s, age=%d)", m.ID, m.Username, m.Age)
}
