package service

import (
	"context"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"workingtime/backend/config"
	"workingtime/backend/internal/dto"
	"workingtime/backend/internal/model"
	"workingtime/backend/internal/repository"
	"workingtime/backend/pkg/apperrors"
	"workingtime/backend/pkg/worktime"
)

// ── 分析模块业务错误 ──

var (
	ErrUnknownMetric       = apperrors.Validation("未知指标，应为 revenue 或 delivery_quantity")
	ErrInvalidHorizon      = apperrors.Validation("预测天数必须为正数")
	ErrTaskNotFoundHistory = apperrors.NotFound("该任务没有历史记录")
)

const standardsCacheKey = "standards"

// AnalyticsService 历史分析业务接口
type AnalyticsService interface {
	// Standards 全任务标准产能表（历史加权平均：总处理量/总工时）
	Standards(ctx context.Context) ([]dto.TaskStandardResponse, error)
	// StandardFor 单任务标准产能
	StandardFor(ctx context.Context, taskName string) (*dto.TaskStandardResponse, error)
	// LinkedTaskAverage 关联任务的历史单次平均时长（分钟）
	LinkedTaskAverage(ctx context.Context, taskName string) (float64, error)
	// Bottlenecks 瓶颈排名：处理基准数量耗时最长的前 N 个任务
	Bottlenecks(ctx context.Context) ([]dto.BottleneckEntry, error)
	// Trend 对指标做最小二乘回归并外推 horizon 天（周末强制为 0）
	Trend(ctx context.Context, metric string, horizonDays int) (*dto.TrendResponse, error)
	// InvalidateStandards 使标准产能缓存失效，快照写入后调用
	InvalidateStandards()
}

// StandardsInvalidator 快照写入方持有的缓存失效钩子
type StandardsInvalidator interface {
	InvalidateStandards()
}

type analyticsService struct {
	cfg    *config.Config
	repo   *repository.Repository
	cache  *gocache.Cache
	clock  worktime.Clock
	logger *zap.Logger
}

// NewAnalyticsService 创建 AnalyticsService 实例
func NewAnalyticsService(cfg *config.Config, repo *repository.Repository, clock worktime.Clock, logger *zap.Logger) AnalyticsService {
	return &analyticsService{
		cfg:    cfg,
		repo:   repo,
		cache:  gocache.New(5*time.Minute, 10*time.Minute),
		clock:  clock,
		logger: logger,
	}
}

func (s *analyticsService) Standards(ctx context.Context) ([]dto.TaskStandardResponse, error) {
	if cached, ok := s.cache.Get(standardsCacheKey); ok {
		return cached.([]dto.TaskStandardResponse), nil
	}

	snaps, err := s.repo.Snapshot.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询历史快照失败", zap.Error(err))
		return nil, err
	}

	type acc struct {
		qty float64
		min float64
	}
	byTask := make(map[string]*acc)
	for i := range snaps {
		snap := &snaps[i]
		// 当日各任务工时
		dayMinutes := make(map[string]float64)
		for j := range snap.WorkRecords {
			rec := &snap.WorkRecords[j]
			if rec.Status != model.StatusCompleted {
				continue
			}
			dayMinutes[rec.TaskName] += rec.Duration
		}
		for task, minutes := range dayMinutes {
			if minutes <= 0 {
				continue // 只统计有工时记录的日子
			}
			a := byTask[task]
			if a == nil {
				a = &acc{}
				byTask[task] = a
			}
			a.min += minutes
			a.qty += snap.TaskQuantities[task]
		}
	}

	out := make([]dto.TaskStandardResponse, 0, len(byTask))
	for task, a := range byTask {
		entry := dto.TaskStandardResponse{
			TaskName:      task,
			TotalQuantity: a.qty,
			TotalMinutes:  a.min,
		}
		if a.min > 0 && a.qty > 0 {
			entry.Speed = a.qty / a.min
		} else {
			entry.InsufficientHistory = true
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TaskName < out[j].TaskName })

	s.cache.Set(standardsCacheKey, out, gocache.DefaultExpiration)
	return out, nil
}

func (s *analyticsService) InvalidateStandards() {
	s.cache.Delete(standardsCacheKey)
}

func (s *analyticsService) StandardFor(ctx context.Context, taskName string) (*dto.TaskStandardResponse, error) {
	taskName = strings.TrimSpace(taskName)
	standards, err := s.Standards(ctx)
	if err != nil {
		return nil, err
	}
	for i := range standards {
		if standards[i].TaskName == taskName {
			return &standards[i], nil
		}
	}
	return nil, ErrTaskNotFoundHistory
}

func (s *analyticsService) LinkedTaskAverage(ctx context.Context, taskName string) (float64, error) {
	taskName = strings.TrimSpace(taskName)
	snaps, err := s.repo.Snapshot.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询历史快照失败", zap.Error(err))
		return 0, err
	}

	var total float64
	var count int
	for i := range snaps {
		for j := range snaps[i].WorkRecords {
			rec := &snaps[i].WorkRecords[j]
			if rec.Status != model.StatusCompleted || rec.TaskName != taskName {
				continue
			}
			total += rec.Duration
			count++
		}
	}
	if count == 0 {
		return 0, nil // 没有历史视为无前置加时
	}
	return total / float64(count), nil
}

func (s *analyticsService) Bottlenecks(ctx context.Context) ([]dto.BottleneckEntry, error) {
	standards, err := s.Standards(ctx)
	if err != nil {
		return nil, err
	}

	baseQty := s.cfg.Worklog.BottleneckBaseQty
	entries := make([]dto.BottleneckEntry, 0, len(standards))
	for _, std := range standards {
		if std.InsufficientHistory || std.Speed <= 0 {
			continue
		}
		entries = append(entries, dto.BottleneckEntry{
			TaskName:       std.TaskName,
			MinutesPerBase: baseQty / std.Speed,
		})
	}
	// 最慢在前
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].MinutesPerBase > entries[j].MinutesPerBase
	})

	top := s.cfg.Worklog.BottleneckTopCount
	if top > 0 && len(entries) > top {
		entries = entries[:top]
	}
	return entries, nil
}

func (s *analyticsService) Trend(ctx context.Context, metric string, horizonDays int) (*dto.TrendResponse, error) {
	if metric != "revenue" && metric != "delivery_quantity" {
		return nil, ErrUnknownMetric
	}
	if horizonDays <= 0 {
		return nil, ErrInvalidHorizon
	}

	now := s.clock.Now()
	fromKey := worktime.DateKey(now.AddDate(0, 0, -s.cfg.Worklog.TrendWindowDays))
	toKey := worktime.DateKey(now)

	snaps, err := s.repo.Snapshot.ListRange(ctx, fromKey, toKey)
	if err != nil {
		s.logger.Error("查询趋势取样区间失败", zap.Error(err))
		return nil, err
	}

	// 取样：按距今天数作横轴，只保留非零点
	var points []regressionPoint
	for i := range snaps {
		day, err := time.ParseInLocation("2006-01-02", snaps[i].DateKey, now.Location())
		if err != nil {
			continue
		}
		var y float64
		switch metric {
		case "revenue":
			y = snaps[i].Management.Revenue
		case "delivery_quantity":
			y = snaps[i].Management.DeliveryQuantity
		}
		if y == 0 {
			continue
		}
		x := float64(int(day.Sub(dateOnly(now)).Hours() / 24))
		points = append(points, regressionPoint{X: x, Y: y})
	}

	slope, intercept := linearRegression(points)

	forecast := make([]dto.TrendPoint, 0, horizonDays)
	for d := 1; d <= horizonDays; d++ {
		day := now.AddDate(0, 0, d)
		p := dto.TrendPoint{
			DateKey:   worktime.DateKey(day),
			IsWeekend: worktime.IsWeekend(day),
		}
		switch {
		case p.IsWeekend:
			p.Predicted = 0 // 周末不营业
		default:
			v := slope*float64(d) + intercept
			if v < 0 {
				v = 0
			}
			p.Predicted = v
		}
		forecast = append(forecast, p)
	}

	return &dto.TrendResponse{
		Metric:     metric,
		Slope:      slope,
		Intercept:  intercept,
		SampleSize: len(points),
		Forecast:   forecast,
	}, nil
}
