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

package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tomoncle/membersearch/utils"
)

// NewRouter wires the routes behind the request logger and panic recovery.
func NewRouter(h *Handler, logger *utils.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(logger))
	r.Use(gin.Recovery())

	r.GET("/healthz", h.Health)
	r.GET("/v1/members", h.SearchMembers)
	r.GET("/v2/members", h.SearchMembersPageSimple)
	r.GET("/v3/members", h.SearchMembersPageComplex)
	return r
}

// RequestLogger logs one entry per request once the handler has finished.
func RequestLogger(logger *utils.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = utils.NewLogger("HTTP")
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		entry := logger.WithFields(logrus.Fields{
			"req_method":   c.Request.Method,
			"req_uri":      c.Request.RequestURI,
			"status_code":  status,
			"latency_time": utils.FormatDuration(time.Since(start)),
			"client_ip":    c.ClientIP(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}
		switch {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request completed")
		}
	}
}
