package app

import (
	"fmt"
	"image"
	"log/slog"
	"math"

	"scroll-stitch/internal/domain/entity"
	"scroll-stitch/internal/domain/port"
)

// Stitcher инкрементальная склейка кадров прокрутки в одно изображение.
// Вызовы HandleImage должны идти последовательно: Stitcher не потокобезопасен.
// Неудачный вызов не меняет состояние сессии.
type Stitcher struct {
	extractor port.FeatureExtractor
	builder   port.IndexBuilder

	opts entity.Options

	// геометрия кадра фиксируется первым принятым кадром
	width, height int
	sampleW       int
	sampleH       int
	minSizeDelta  int
	tier          entity.CornerTier

	edges [2]*edge // по entity.Edge

	last    entity.StitchedFrame
	hasLast bool
}

// NewStitcher создаёт сессию с параметрами по умолчанию для вертикальной прокрутки
func NewStitcher(extractor port.FeatureExtractor, builder port.IndexBuilder) *Stitcher {
	return &Stitcher{
		extractor: extractor,
		builder:   builder,
		opts:      entity.DefaultOptions(entity.Vertical),
		edges:     [2]*edge{newEdge(entity.Trailing), newEdge(entity.Leading)},
	}
}

// Init задаёт параметры и сбрасывает сессию
func (s *Stitcher) Init(opts entity.Options) error {
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("invalid stitch options: %w", err)
	}
	s.opts = opts
	s.Clear()
	return nil
}

// Options текущие параметры сессии
func (s *Stitcher) Options() entity.Options {
	return s.opts
}

// Clear удаляет все кадры и индексы, параметры сохраняются
func (s *Stitcher) Clear() {
	for _, e := range s.edges {
		e.reset()
	}
	s.width, s.height = 0, 0
	s.sampleW, s.sampleH = 0, 0
	s.minSizeDelta = 0
	s.tier = entity.TierUndecided
	s.last, s.hasLast = entity.StitchedFrame{}, false
}

// Extents покрытие до первого кадра и после него
func (s *Stitcher) Extents() (leading, trailing int) {
	if s.empty() {
		return 0, 0
	}
	return s.edges[entity.Leading].reach, s.edges[entity.Trailing].reach - s.scrollSide()
}

// LastAppended последний добавленный обрезанный кадр
func (s *Stitcher) LastAppended() (entity.StitchedFrame, bool) {
	return s.last, s.hasLast
}

// Tier уровень детектора углов, выбранный на первом кадре
func (s *Stitcher) Tier() entity.CornerTier {
	return s.tier
}

// HandleImage размещает кадр. Подсказка hint задаёт край, по индексу которого ищется
// совпадение; при неудаче и включённом откате пробуется противоположный край.
// Placement.Unchanged без ошибки означает, что вид не сдвинулся.
func (s *Stitcher) HandleImage(img image.Image, hint entity.Edge) (entity.Placement, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return entity.Placement{Searched: hint}, fmt.Errorf("empty %dx%d frame: %w", w, h, entity.ErrInvalidDimensions)
	}
	if !s.empty() && (w != s.width || h != s.height) {
		return entity.Placement{Searched: hint}, fmt.Errorf("got %dx%d, session is %dx%d: %w",
			w, h, s.width, s.height, entity.ErrInvalidDimensions)
	}

	params := s.extractParams(w, h)
	features, err := s.extractor.Extract(img, params)
	if err != nil {
		return entity.Placement{Searched: hint}, fmt.Errorf("extract features: %w", err)
	}

	if s.empty() {
		return s.bootstrap(img, params, features)
	}

	side := s.scrollSide()
	searched := s.edges[hint]
	match := findOffset(s.opts.Direction, searched, features, side)
	s.logVote(searched.side, features, match)

	if !match.found && !match.unchanged && s.opts.TryRollback {
		searched = s.edges[hint.Opposite()]
		match = findOffset(s.opts.Direction, searched, features, side)
		s.logVote(searched.side, features, match)
	}

	if match.unchanged {
		return entity.Placement{Searched: searched.side, Unchanged: true}, nil
	}
	if !match.found {
		return entity.Placement{Searched: hint}, entity.ErrNoReliableMatch
	}

	return s.place(img, features, searched, match)
}

// Export собирает итоговое изображение
func (s *Stitcher) Export() (*image.RGBA, error) {
	if s.empty() {
		return nil, entity.ErrExportEmpty
	}

	l := layout{
		direction:    s.opts.Direction,
		crossSide:    s.opts.Direction.CrossSide(s.width, s.height),
		leadingReach: s.edges[entity.Leading].reach,
		trailReach:   s.edges[entity.Trailing].reach,
	}
	return compose(l, s.edges[entity.Leading].frames, s.edges[entity.Trailing].frames), nil
}

func (s *Stitcher) empty() bool {
	return len(s.edges[entity.Trailing].frames) == 0 && len(s.edges[entity.Leading].frames) == 0
}

func (s *Stitcher) scrollSide() int {
	return s.opts.Direction.ScrollSide(s.width, s.height)
}

// extractParams уменьшает только поперечную ось: координаты вдоль прокрутки остаются в пикселях кадра
func (s *Stitcher) extractParams(w, h int) entity.ExtractParams {
	sw, sh := s.sampleW, s.sampleH
	if s.empty() {
		cross := s.opts.Direction.CrossSide(w, h)
		sampled := max(int(math.Round(float64(cross)*s.opts.SampleScale(cross))), 1)
		sw, sh = sampled, h
		if s.opts.Direction == entity.Horizontal {
			sw, sh = w, sampled
		}
	}

	return entity.ExtractParams{
		Width:     sw,
		Height:    sh,
		Threshold: s.opts.CornerThreshold,
		PatchSize: s.opts.DescriptorPatchSize,
		Tier:      s.tier,
	}
}

// bootstrap первый кадр целиком уходит в Trailing, оба края индексируются по нему
func (s *Stitcher) bootstrap(img image.Image, params entity.ExtractParams, f *entity.Features) (entity.Placement, error) {
	b := img.Bounds()
	side := s.opts.Direction.ScrollSide(b.Dx(), b.Dy())

	trailIdx, err := s.buildIndex(f, entity.EffortThorough, 0, side)
	if err != nil {
		return entity.Placement{}, err
	}
	leadIdx, err := s.buildIndex(f, entity.EffortQuick, 0, 0)
	if err != nil {
		return entity.Placement{}, err
	}

	s.width, s.height = b.Dx(), b.Dy()
	s.sampleW, s.sampleH = params.Width, params.Height
	s.tier = f.Tier
	s.minSizeDelta = s.opts.ResolveMinSizeDelta(side)

	trailing, leading := s.edges[entity.Trailing], s.edges[entity.Leading]
	frame := entity.StitchedFrame{Image: trailing.crop(img, s.opts.Direction, side)}
	trailing.frames = append(trailing.frames, frame)
	trailing.reach = side
	trailing.index = trailIdx
	leading.index = leadIdx
	s.last, s.hasLast = frame, true

	slog.Debug("stitch session started",
		"width", s.width,
		"height", s.height,
		"sample_width", s.sampleW,
		"sample_height", s.sampleH,
		"tier", s.tier,
		"keypoints", len(f.Keypoints),
		"min_size_delta", s.minSizeDelta,
	)

	return entity.Placement{
		EdgePosition: side,
		Appended:     true,
		Target:       entity.Trailing,
		Searched:     entity.Trailing,
	}, nil
}

// place добавляет новую область кадра к краю и при необходимости перестраивает его индекс
func (s *Stitcher) place(img image.Image, f *entity.Features, searched *edge, m offsetMatch) (entity.Placement, error) {
	side := s.scrollSide()
	origin := searched.index.keypoints[m.origin]
	fresh := f.Keypoints[m.fresh]

	start := along(s.opts.Direction, origin) - along(s.opts.Direction, fresh) + searched.index.base
	target := s.edges[entity.Trailing]
	if start < 0 {
		target = s.edges[entity.Leading]
	}

	outer := target.outer(start, side)
	delta := outer - target.reach
	placement := entity.Placement{
		EdgePosition: target.position(start, side),
		Target:       target.side,
		Searched:     searched.side,
	}
	if delta <= 0 {
		slog.Debug("frame adds nothing", "edge", target.side, "start", start)
		return placement, nil
	}

	// перестройка, когда новый кадр почти вышел за проиндексированный
	var rebuilt *edgeIndex
	if overlap := side - (outer - target.index.reach); overlap <= s.minSizeDelta {
		effort := entity.EffortThorough
		if target.side == entity.Leading {
			effort = entity.EffortQuick
		}
		idx, err := s.buildIndex(f, effort, start, outer)
		if err != nil {
			return entity.Placement{Searched: searched.side}, err
		}
		rebuilt = idx
	}

	overlay := max(side/2-delta, 0)
	span := min(delta+overlay, side)
	frame := entity.StitchedFrame{
		Image:   target.crop(img, s.opts.Direction, span),
		Overlay: span - delta,
	}
	target.frames = append(target.frames, frame)
	target.reach += delta
	if rebuilt != nil {
		target.index = rebuilt
	}
	s.last, s.hasLast = frame, true

	placement.Appended = true
	slog.Debug("frame appended",
		"edge", target.side,
		"searched", searched.side,
		"start", start,
		"delta", delta,
		"overlay", frame.Overlay,
		"reach", target.reach,
		"index_rebuilt", rebuilt != nil,
	)
	return placement, nil
}

func (s *Stitcher) buildIndex(f *entity.Features, effort entity.BuildEffort, base, reach int) (*edgeIndex, error) {
	match, err := s.builder.Build(f.Descriptors, effort)
	if err != nil {
		return nil, fmt.Errorf("build edge index: %w", err)
	}
	return &edgeIndex{
		base:        base,
		reach:       reach,
		match:       match,
		keypoints:   f.Keypoints,
		descriptors: f.Descriptors,
	}, nil
}

func (s *Stitcher) logVote(side entity.Edge, f *entity.Features, m offsetMatch) {
	slog.Debug("offset vote",
		"edge", side,
		"keypoints", len(f.Keypoints),
		"found", m.found,
		"unchanged", m.unchanged,
		"offset", m.offset,
		"support", m.support,
		"runner_up", m.runnerUp,
	)
}
