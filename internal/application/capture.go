package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"scroll-stitch/internal/domain/entity"
	"scroll-stitch/internal/domain/port"
)

// CaptureDeps адаптеры, из которых собирается сессия склейки
type CaptureDeps struct {
	Extractor port.FeatureExtractor
	Builder   port.IndexBuilder
	Codec     port.ImageCodec
	// NewFilter создаёт фильтр повторов на сессию; nil отключает отсев
	NewFilter func() port.DuplicateFilter
}

// CaptureSettings параметры сессий
type CaptureSettings struct {
	Options       func(direction entity.ScrollDirection) entity.Options
	ThumbnailSize int
}

// SubmitOutput итог обработки одного кадра
type SubmitOutput struct {
	Placement entity.Placement
	Thumbnail []byte // PNG добавленной области, пусто если кадр не добавлен
	Leading   int
	Trailing  int
}

type captureSession struct {
	mu        sync.Mutex
	chatID    int64
	direction entity.ScrollDirection
	stitcher  *Stitcher
	filter    port.DuplicateFilter
}

// CaptureService ведёт по одной сессии склейки на пользователя.
// Кадры одной сессии обрабатываются по очереди, разные сессии параллельно.
type CaptureService struct {
	users    *UserService
	deps     CaptureDeps
	settings CaptureSettings
	sessions map[int64]*captureSession
	mu       sync.RWMutex
}

// NewCaptureService создаёт сервис, который управляет сессиями склейки.
func NewCaptureService(users *UserService, deps CaptureDeps, settings CaptureSettings) *CaptureService {
	if settings.Options == nil {
		settings.Options = entity.DefaultOptions
	}
	return &CaptureService{
		users:    users,
		deps:     deps,
		settings: settings,
		sessions: make(map[int64]*captureSession),
	}
}

// Start открывает новую сессию склейки
func (s *CaptureService) Start(ctx context.Context, userID, chatID int64, direction entity.ScrollDirection) (*entity.User, error) {
	stitcher := NewStitcher(s.deps.Extractor, s.deps.Builder)
	if err := stitcher.Init(s.settings.Options(direction)); err != nil {
		return nil, err
	}

	sess := &captureSession{chatID: chatID, direction: direction, stitcher: stitcher}
	if s.deps.NewFilter != nil {
		sess.filter = s.deps.NewFilter()
	}

	s.mu.Lock()
	if _, ok := s.sessions[userID]; ok {
		s.mu.Unlock()
		return nil, entity.ErrSessionActive
	}
	s.sessions[userID] = sess
	s.mu.Unlock()

	slog.Info("capture started", "user_id", userID, "chat_id", chatID, "direction", direction)
	return s.users.BeginCapture(ctx, userID, chatID, direction)
}

// SetHint задаёт край, к которому пользователь прокручивает
func (s *CaptureService) SetHint(ctx context.Context, userID int64, hint entity.Edge) (*entity.User, error) {
	sess, err := s.session(userID)
	if err != nil {
		return nil, err
	}
	return s.users.SetHint(ctx, userID, sess.chatID, hint)
}

// Submit передаёт кадр в сессию. pending число кадров, ждущих в очереди за этим:
// пока они есть, неудачное совпадение считается отсутствием сдвига.
func (s *CaptureService) Submit(ctx context.Context, userID int64, data []byte, pending int) (*SubmitOutput, error) {
	sess, err := s.session(userID)
	if err != nil {
		return nil, err
	}

	img, err := s.deps.Codec.Decode(data)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Get(ctx, userID, sess.chatID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	out := &SubmitOutput{}
	if sess.filter != nil && sess.filter.Duplicate(img) {
		out.Placement = entity.Placement{Searched: user.Hint, Unchanged: true}
		out.Leading, out.Trailing = sess.stitcher.Extents()
		return out, nil
	}

	placement, err := sess.stitcher.HandleImage(img, user.Hint)
	if err != nil {
		recoverable := errors.Is(err, entity.ErrNoReliableMatch) || errors.Is(err, entity.ErrNoFeatures)
		if !recoverable || pending <= 0 {
			return nil, err
		}
		slog.Debug("no match, more frames pending", "user_id", userID, "pending", pending, "error", err)
		placement = entity.Placement{Searched: user.Hint, Unchanged: true}
	}

	out.Placement = placement
	out.Leading, out.Trailing = sess.stitcher.Extents()

	if placement.Appended {
		out.Thumbnail = s.thumbnail(sess)

		// следующие кадры скорее всего продолжат тот же край
		if placement.Target != user.Hint {
			if _, err := s.users.SetHint(ctx, userID, sess.chatID, placement.Target); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

// Finish собирает итоговое изображение в PNG и закрывает сессию
func (s *CaptureService) Finish(ctx context.Context, userID, chatID int64) ([]byte, error) {
	sess, err := s.session(userID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	img, err := sess.stitcher.Export()
	sess.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if _, err := s.users.SetState(ctx, userID, chatID, entity.StateExporting); err != nil {
		return nil, err
	}

	data, err := s.deps.Codec.EncodePNG(img)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}

	s.drop(userID)
	if _, err := s.users.SetState(ctx, userID, chatID, entity.StateMainMenu); err != nil {
		return nil, err
	}

	slog.Info("capture finished",
		"user_id", userID,
		"chat_id", chatID,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy(),
	)
	return data, nil
}

// Cancel закрывает сессию без сборки
func (s *CaptureService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	s.drop(userID)
	return s.users.Cancel(ctx, userID, chatID)
}

// Active сообщает, есть ли у пользователя сессия
func (s *CaptureService) Active(userID int64) bool {
	_, err := s.session(userID)
	return err == nil
}

func (s *CaptureService) session(userID int64) (*captureSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return nil, entity.ErrNoSession
	}
	return sess, nil
}

func (s *CaptureService) drop(userID int64) {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
}

func (s *CaptureService) thumbnail(sess *captureSession) []byte {
	if s.settings.ThumbnailSize <= 0 {
		return nil
	}
	frame, ok := sess.stitcher.LastAppended()
	if !ok {
		return nil
	}

	data, err := s.deps.Codec.EncodePNG(s.deps.Codec.Thumbnail(frame.Image, sess.direction, s.settings.ThumbnailSize))
	if err != nil {
		slog.Warn("thumbnail failed", "error", err)
		return nil
	}
	return data
}
