package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/duolove/duolove/internal/service"
)

type generateRequest struct {
	UserID int64 `json:"userId"`
}

type connectRequest struct {
	ReferralCode string `json:"referralCode"`
	UserID       int64  `json:"userId"`
	UserName     string `json:"userName"`
}

type notifyRequest struct {
	InviterUserID int64  `json:"inviterUserId"`
	InviteeUserID int64  `json:"inviteeUserId"`
	InviteeName   string `json:"inviteeName"`
}

type disconnectRequest struct {
	UserID int64 `json:"userId"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 {
		s.writeError(w, fmt.Errorf("userId is required: %w", service.ErrValidation))
		return
	}

	code, link, err := s.service.GenerateLink(r.Context(), req.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"referralCode": code,
		"referralLink": link,
		"success":      true,
	})
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req connectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ReferralCode == "" || req.UserID == 0 {
		s.writeError(w, fmt.Errorf("referralCode and userId are required: %w", service.ErrValidation))
		return
	}

	summary, err := s.service.Redeem(r.Context(), req.ReferralCode, req.UserID, req.UserName)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"partnership": summary,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUserID(w, r, "/api/referral/stats/")
	if !ok {
		return
	}

	stats, err := s.service.Stats(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleBotInfo(w http.ResponseWriter, _ *http.Request) {
	if s.bot == nil {
		s.writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "bot is not available"})
		return
	}
	s.writeJSON(w, http.StatusOK, s.bot.BotInfo())
}

func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req notifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.InviterUserID == 0 || req.InviteeUserID == 0 {
		s.writeError(w, fmt.Errorf("inviterUserId and inviteeUserId are required: %w", service.ErrValidation))
		return
	}

	s.service.NotifyInvite(r.Context(), req.InviterUserID, req.InviteeUserID, req.InviteeName)
	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handlePartnerStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUserID(w, r, "/api/partner/status/")
	if !ok {
		return
	}

	p, err := s.service.PartnerStatus(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"partnership": p,
		"hasPartner":  p != nil,
	})
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req disconnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 {
		s.writeError(w, fmt.Errorf("userId is required: %w", service.ErrValidation))
		return
	}

	if err := s.service.Disconnect(r.Context(), req.UserID); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) pathUserID(w http.ResponseWriter, r *http.Request, prefix string) (int64, bool) {
	raw := strings.TrimPrefix(r.URL.Path, prefix)
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		s.writeError(w, fmt.Errorf("invalid user id %q: %w", raw, service.ErrValidation))
		return 0, false
	}
	return userID, true
}
