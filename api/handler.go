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

// Package api serves the member searches over HTTP with gin.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tomoncle/membersearch/database"
	"github.com/tomoncle/membersearch/model"
	"github.com/tomoncle/membersearch/types"
)

// MemberSearcher is the search surface the handlers need.
type MemberSearcher interface {
	Search(ctx context.Context, cond *model.MemberSearchCondition) ([]*model.MemberTeamDto, error)
	SearchPageSimple(ctx context.Context, cond *model.MemberSearchCondition, page *types.PageRequest) (*types.Pagination[model.MemberTeamDto], error)
	SearchPageComplex(ctx context.Context, cond *model.MemberSearchCondition, page *types.PageRequest) (*types.Pagination[model.MemberTeamDto], error)
}

// HealthFunc reports the current database health.
type HealthFunc func(ctx context.Context) *database.HealthStatus

type Handler struct {
	members MemberSearcher
	health  HealthFunc
}

// NewHandler returns a Handler. A nil health uses the global database.
func NewHandler(members MemberSearcher, health HealthFunc) *Handler {
	if health == nil {
		health = database.GetHealthStatus
	}
	return &Handler{members: members, health: health}
}

type pageQuery struct {
	Page int `form:"page"`
	Size int `form:"size"`
}

// SearchMembers handles GET /v1/members.
func (h *Handler) SearchMembers(c *gin.Context) {
	cond, ok := bindCondition(c)
	if !ok {
		return
	}
	dtos, err := h.members.Search(c.Request.Context(), cond)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dtos)
}

// SearchMembersPageSimple handles GET /v2/members.
func (h *Handler) SearchMembersPageSimple(c *gin.Context) {
	h.searchPage(c, h.members.SearchPageSimple)
}

// SearchMembersPageComplex handles GET /v3/members.
func (h *Handler) SearchMembersPageComplex(c *gin.Context) {
	h.searchPage(c, h.members.SearchPageComplex)
}

type pageSearchFunc func(context.Context, *model.MemberSearchCondition, *types.PageRequest) (*types.Pagination[model.MemberTeamDto], error)

func (h *Handler) searchPage(c *gin.Context, search pageSearchFunc) {
	cond, ok := bindCondition(c)
	if !ok {
		return
	}
	var pq pageQuery
	if err := c.ShouldBindQuery(&pq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req := types.NewPageRequest(pq.Page, pq.Size)
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	page, err := search(c.Request.Context(), cond, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, page)
}

// Health handles GET /healthz.
func (h *Handler) Health(c *gin.Context) {
	status := h.health(c.Request.Context())
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}

// bindCondition reads the search filters from the query string and writes a
// 400 reply when they are malformed.
func bindCondition(c *gin.Context) (*model.MemberSearchCondition, bool) {
	var cond model.MemberSearchCondition
	if err := c.ShouldBindQuery(&cond); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	// gin binds "ageGoe=" as 0; an empty value means no bound
	if c.Query("ageGoe") == "" {
		cond.AgeGoe = nil
	}
	if c.Query("ageLoe") == "" {
		cond.AgeLoe = nil
	}
	return &cond, true
}
