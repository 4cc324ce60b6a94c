/*
 * MIT License
 *
 * Copyright (c) 2026 AgentMesh Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package host

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agentmesh/agentmesh/remote"
)

// newRouter wires the remoting endpoints. Envelope-level failures travel
// inside the JSON response with HTTP 200; only malformed requests get an
// HTTP error status.
func (h *Host) newRouter() *echo.Echo {
	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.StdLogger = h.logger.StdLogger()

	router.GET(remote.HandshakePath, h.handleHandshake)
	router.POST(remote.RegisterPath, h.handleRegister)
	router.POST(remote.InvokePath, h.handleInvoke)
	router.POST(remote.PollPath, h.handlePoll)
	router.POST(remote.StopPath, h.handleStop)
	return router
}

// handleHandshake answers liveness probes with the identity banner.
func (h *Host) handleHandshake(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Banner())
}

// handleRegister constructs and registers an instance of an allow-listed
// kind.
func (h *Host) handleRegister(c echo.Context) error {
	var req remote.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid register request")
	}
	if req.Kind == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "kind is required")
	}

	identity, err := h.RegisterKind(req.Kind, req.Args)
	if err != nil {
		return c.JSON(http.StatusOK, &remote.RegisterResponse{Error: remote.DetailOf(err)})
	}
	return c.JSON(http.StatusOK, &remote.RegisterResponse{Identity: identity})
}

// handleInvoke dispatches one invocation envelope.
func (h *Host) handleInvoke(c echo.Context) error {
	var envelope remote.Envelope
	if err := c.Bind(&envelope); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid invocation envelope")
	}
	return c.JSON(http.StatusOK, h.Dispatch(c.Request().Context(), &envelope))
}

// handlePoll reports the resolution state of an async call token.
func (h *Host) handlePoll(c echo.Context) error {
	var req remote.PollRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid poll request")
	}
	if req.Token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "token is required")
	}
	return c.JSON(http.StatusOK, h.Poll(req.Token))
}

// handleStop deregisters one instance.
func (h *Host) handleStop(c echo.Context) error {
	var req remote.StopRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid stop request")
	}

	if err := h.Deregister(c.Request().Context(), req.Identity); err != nil {
		return c.JSON(http.StatusOK, &remote.InvokeResponse{Status: remote.StatusError, Error: remote.DetailOf(err)})
	}
	return c.JSON(http.StatusOK, &remote.InvokeResponse{Status: remote.StatusOK})
}
