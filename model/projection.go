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

// MemberDto carries the username and age of a member.
type MemberDto struct {
	Username string `bun:"username" json:"username"`
	Age      int    `bun:"age" json:"age"`
}

// UserDto is the same pair under a different name for the username column.
type UserDto struct {
	Name string `bun:"name" json:"name"`
	Age  int    `bun:"age" json:"age"`
}
