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
	"fmt"

	"github.com/uptrace/bun"
)

// Team groups members. It is the inverse side of the member/team association.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:team"`

	ID      int64     `bun:"id,pk,autoincrement" json:"id"`
	Name    string    `bun:"name,notnull" json:"name"`
	Members []*Member `bun:"rel:has-many,join:id=team_id" json:"-"`
}

// NewTeam returns a team with an empty member collection.
func NewTeam(name string) *Team {
	return &Team{Name: name, Members: make([]*Member, 0)}
}

func (t *Team) String() string {
	return fmt.Sprintf("Team(id=%d, name=%s)", t.ID, t.Name)
}

func (t *Team) removeMember(m *Member) {
	for i, cur := range t.Members {
		if cur == m {
			t.Members = append(t.Members[:i], t.Members[i+1:]...)
			return
		}
	}
}
