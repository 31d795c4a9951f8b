package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/crestview/chronicle/internal/app/models"
	"github.com/crestview/chronicle/internal/app/models/dto"
	"github.com/crestview/chronicle/internal/app/repositories"
	"github.com/crestview/chronicle/internal/pkg/apperrors"
	"github.com/crestview/chronicle/internal/pkg/filestorage"
	"github.com/crestview/chronicle/internal/pkg/logger"
	"github.com/crestview/chronicle/internal/pkg/realtime"
)

// ChatService manages direct sessions, group chats and message delivery
type ChatService struct {
	chatRepo    *repositories.ChatRepository
	studentRepo *repositories.StudentRepository
	userRepo    *repositories.UserRepository
	storage     *filestorage.LocalStorage
	hub         *realtime.Hub
}

// NewChatService creates a new chat service
func NewChatService(
	chatRepo *repositories.ChatRepository,
	studentRepo *repositories.StudentRepository,
	userRepo *repositories.UserRepository,
	storage *filestorage.LocalStorage,
	hub *realtime.Hub,
) *ChatService {
	return &ChatService{
		chatRepo:    chatRepo,
		studentRepo: studentRepo,
		userRepo:    userRepo,
		storage:     storage,
		hub:         hub,
	}
}

// SaveAttachment stores a message attachment and returns its URL. The URL is
// passed back in SendMessageRequest when the message is sent.
func (s *ChatService) SaveAttachment(file *multipart.FileHeader) (string, error) {
	return s.storage.SaveFileWithPath(file, "chat")
}

// NormalizePair orders two principal keys so a conversation maps to exactly
// one (low, high) pair no matter which side opens it.
func NormalizePair(a, b string) (low, high string) {
	if a <= b {
		return a, b
	}
	return b, a
}

// OpenSession returns the direct session with a peer, creating it on first
// use. Opening a session with yourself is rejected.
func (s *ChatService) OpenSession(ctx context.Context, caller models.Principal, req *dto.OpenSessionRequest) (*models.ChatSession, error) {
	peer := models.Principal{Role: models.RoleType(req.PeerRole), ID: req.PeerID}
	if peer.Key() == caller.Key() {
		return nil, apperrors.NewBadRequestError("cannot open a chat with yourself")
	}

	if err := s.verifyPrincipalExists(ctx, peer); err != nil {
		return nil, err
	}

	low, high := NormalizePair(caller.Key(), peer.Key())
	session, err := s.chatRepo.FindSessionByParticipants(ctx, low, high)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, apperrors.ErrChatSessionNotFound) {
		return nil, err
	}

	session = &models.ChatSession{ParticipantLow: low, ParticipantHigh: high}
	if err := s.chatRepo.CreateSession(ctx, session); err != nil {
		// Lost a create race, the other side just opened it
		if errors.Is(err, apperrors.ErrConflict) {
			return s.chatRepo.FindSessionByParticipants(ctx, low, high)
		}
		return nil, err
	}
	return session, nil
}

func (s *ChatService) verifyPrincipalExists(ctx context.Context, p models.Principal) error {
	if p.Role == models.RoleStudent {
		_, err := s.studentRepo.FindByID(ctx, p.ID)
		return err
	}
	_, err := s.userRepo.FindByID(ctx, p.ID)
	return err
}

// ListSessions returns the caller's direct sessions
func (s *ChatService) ListSessions(ctx context.Context, caller models.Principal) ([]*models.ChatSession, error) {
	return s.chatRepo.ListSessionsForPrincipal(ctx, caller.Key())
}

// GetSessionMessages returns a page of a session's messages. Only
// participants may read them.
func (s *ChatService) GetSessionMessages(ctx context.Context, caller models.Principal, sessionID int64, offset uint64, limit int) ([]*models.ChatMessage, int64, error) {
	session, err := s.chatRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, 0, err
	}
	if !session.HasParticipant(caller.Key()) {
		return nil, 0, apperrors.ErrNotAParticipant
	}
	return s.chatRepo.ListSessionMessages(ctx, sessionID, offset, limit)
}

// SendSessionMessage stores a direct message and relays it to the session room
func (s *ChatService) SendSessionMessage(ctx context.Context, caller models.Principal, callerName string, sessionID int64, req *dto.SendMessageRequest) (*models.ChatMessage, error) {
	session, err := s.chatRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.HasParticipant(caller.Key()) {
		return nil, apperrors.ErrNotAParticipant
	}

	message := &models.ChatMessage{
		SessionID:     &sessionID,
		SenderKey:     caller.Key(),
		SenderName:    callerName,
		Body:          req.Body,
		AttachmentURL: req.AttachmentURL,
	}
	if err := s.chatRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	s.broadcastMessage(realtime.RoomPrefixSession+strconv.FormatInt(sessionID, 10), message)
	return message, nil
}

// DeleteSession removes a session and its history. Only participants may.
func (s *ChatService) DeleteSession(ctx context.Context, caller models.Principal, sessionID int64) error {
	session, err := s.chatRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if !session.HasParticipant(caller.Key()) {
		return apperrors.ErrNotAParticipant
	}
	return s.chatRepo.DeleteSession(ctx, sessionID)
}

// CreateGroup creates a group chat with the caller as first member
func (s *ChatService) CreateGroup(ctx context.Context, caller models.Principal, req *dto.CreateGroupRequest) (*models.GroupChat, error) {
	group := &models.GroupChat{
		Name:       req.Name,
		CreatedBy:  caller.Key(),
		MemberKeys: []string{caller.Key()},
	}
	if req.Description != "" {
		group.Description = &req.Description
	}
	if err := s.chatRepo.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// GetGroup loads a group the caller belongs to
func (s *ChatService) GetGroup(ctx context.Context, caller models.Principal, groupID int64) (*models.GroupChat, error) {
	group, err := s.chatRepo.FindGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !s.isMember(group, caller.Key()) {
		return nil, apperrors.ErrNotAParticipant
	}
	return group, nil
}

func (s *ChatService) isMember(group *models.GroupChat, key string) bool {
	for _, member := range group.MemberKeys {
		if member == key {
			return true
		}
	}
	return false
}

// ListGroups returns the caller's group chats
func (s *ChatService) ListGroups(ctx context.Context, caller models.Principal) ([]*models.GroupChat, error) {
	return s.chatRepo.ListGroupsForPrincipal(ctx, caller.Key())
}

// JoinGroup adds the caller to a group
func (s *ChatService) JoinGroup(ctx context.Context, caller models.Principal, groupID int64) error {
	if _, err := s.chatRepo.FindGroupByID(ctx, groupID); err != nil {
		return err
	}
	return s.chatRepo.AddGroupMember(ctx, groupID, caller.Key())
}

// LeaveGroup removes the caller from a group
func (s *ChatService) LeaveGroup(ctx context.Context, caller models.Principal, groupID int64) error {
	return s.chatRepo.RemoveGroupMember(ctx, groupID, caller.Key())
}

// DeleteGroup removes a group. Only its creator or staff may delete it.
func (s *ChatService) DeleteGroup(ctx context.Context, caller models.Principal, groupID int64) error {
	group, err := s.chatRepo.FindGroupByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group.CreatedBy != caller.Key() && caller.Role == models.RoleStudent {
		return apperrors.ErrPermissionDenied
	}
	return s.chatRepo.DeleteGroup(ctx, groupID)
}

// GetGroupMessages returns a page of a group's messages for a member
func (s *ChatService) GetGroupMessages(ctx context.Context, caller models.Principal, groupID int64, offset uint64, limit int) ([]*models.ChatMessage, int64, error) {
	isMember, err := s.chatRepo.IsGroupMember(ctx, groupID, caller.Key())
	if err != nil {
		return nil, 0, err
	}
	if !isMember {
		return nil, 0, apperrors.ErrNotAParticipant
	}
	return s.chatRepo.ListGroupMessages(ctx, groupID, offset, limit)
}

// SendGroupMessage stores a group message and relays it to the group room
func (s *ChatService) SendGroupMessage(ctx context.Context, caller models.Principal, callerName string, groupID int64, req *dto.SendMessageRequest) (*models.ChatMessage, error) {
	isMember, err := s.chatRepo.IsGroupMember(ctx, groupID, caller.Key())
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, apperrors.ErrNotAParticipant
	}

	message := &models.ChatMessage{
		GroupID:       &groupID,
		SenderKey:     caller.Key(),
		SenderName:    callerName,
		Body:          req.Body,
		AttachmentURL: req.AttachmentURL,
	}
	if err := s.chatRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	s.broadcastMessage(realtime.RoomPrefixGroup+strconv.FormatInt(groupID, 10), message)
	return message, nil
}

func (s *ChatService) broadcastMessage(room string, message *models.ChatMessage) {
	if s.hub == nil {
		return
	}

	payload, err := json.Marshal(message)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to marshal chat message for broadcast")
		return
	}

	s.hub.Broadcast(&realtime.Event{
		Type:       realtime.EventMessage,
		Room:       room,
		SenderKey:  message.SenderKey,
		SenderName: message.SenderName,
		Data:       payload,
	})
}

// CanJoinRoom implements the websocket room authorizer: a principal may
// subscribe to "session:<id>" rooms it participates in and "group:<id>"
// rooms it is a member of.
func (s *ChatService) CanJoinRoom(ctx context.Context, principalKey, room string) error {
	switch {
	case strings.HasPrefix(room, realtime.RoomPrefixSession):
		id, err := strconv.ParseInt(strings.TrimPrefix(room, realtime.RoomPrefixSession), 10, 64)
		if err != nil {
			return fmt.Errorf("malformed room key %q", room)
		}
		session, err := s.chatRepo.FindSessionByID(ctx, id)
		if err != nil {
			return err
		}
		if !session.HasParticipant(principalKey) {
			return apperrors.ErrNotAParticipant
		}
		return nil

	case strings.HasPrefix(room, realtime.RoomPrefixGroup):
		id, err := strconv.ParseInt(strings.TrimPrefix(room, realtime.RoomPrefixGroup), 10, 64)
		if err != nil {
			return fmt.Errorf("malformed room key %q", room)
		}
		isMember, err := s.chatRepo.IsGroupMember(ctx, id, principalKey)
		if err != nil {
			return err
		}
		if !isMember {
			return apperrors.ErrNotAParticipant
		}
		return nil
	}
	return fmt.Errorf("unknown room key %q", room)
}
