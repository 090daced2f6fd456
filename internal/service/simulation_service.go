package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"workingtime/backend/config"
	"workingtime/backend/internal/dto"
	"workingtime/backend/internal/repository"
	"workingtime/backend/pkg/worktime"
)

// SimulationService 成本/人力模拟业务接口
type SimulationService interface {
	Simulate(ctx context.Context, req *dto.SimulationRequest) (*dto.SimulationResponse, error)
}

type simulationService struct {
	cfg       *config.Config
	repo      *repository.Repository
	analytics AnalyticsService
	logger    *zap.Logger
}

// NewSimulationService 创建 SimulationService 实例
func NewSimulationService(cfg *config.Config, repo *repository.Repository, analytics AnalyticsService, logger *zap.Logger) SimulationService {
	return &simulationService{cfg: cfg, repo: repo, analytics: analytics, logger: logger}
}

// batchState 批次调度折叠状态：并行行共享批次起点，
// 串行行在上一批次最晚结束后开始
type batchState struct {
	batchStart  float64
	batchMaxEnd float64
}

// Simulate 执行模拟。行级错误写入结果的 Error 字段，不中断整体计算。
func (s *simulationService) Simulate(ctx context.Context, req *dto.SimulationRequest) (*dto.SimulationResponse, error) {
	start, err := worktime.Parse(req.StartTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}

	lunchStart, lunchEnd := s.lunchWindow()
	wage, err := s.wagePerMinute(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.SimulationResponse{Rows: make([]dto.SimulationRowResult, 0, len(req.Rows))}
	state := batchState{batchStart: start.Minutes(), batchMaxEnd: start.Minutes()}
	overallEnd := start.Minutes()

	for i, row := range req.Rows {
		// 批次推进：首行开启首批；串行行以上一批最晚结束开启新批
		if i > 0 && !row.IsConcurrent {
			state = batchState{batchStart: state.batchMaxEnd, batchMaxEnd: state.batchMaxEnd}
		}
		rowStart := state.batchStart

		result := s.simulateRow(ctx, req.Mode, &row, rowStart, lunchStart, lunchEnd, wage)
		result.StartTime = worktime.FromMinutes(rowStart).String()
		if result.Error == "" {
			rowEnd := rowStart + result.DurationMinutes
			result.EndTime = worktime.FromMinutes(rowEnd).String()
			if rowEnd > state.batchMaxEnd {
				state.batchMaxEnd = rowEnd
			}
			if rowEnd > overallEnd {
				overallEnd = rowEnd
			}
			resp.TotalLaborCost += result.LaborCost
		} else {
			result.EndTime = result.StartTime
		}
		resp.Rows = append(resp.Rows, *result)
	}

	resp.OverallEndTime = worktime.FromMinutes(overallEnd).String()
	return resp, nil
}

// simulateRow 计算单行。所有可预期的输入错误以 Error 字符串返回。
func (s *simulationService) simulateRow(
	ctx context.Context,
	mode string,
	row *dto.SimulationRow,
	rowStart, lunchStart, lunchEnd, wage float64,
) *dto.SimulationRowResult {
	result := &dto.SimulationRowResult{TaskName: row.TaskName}

	if row.Quantity <= 0 {
		result.Error = "数量必须为正数"
		return result
	}

	speed, err := s.speedFor(ctx, row)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	if speed <= 0 {
		result.Error = "无法确定任务速度：无人工覆盖、无标准配置、无历史数据"
		return result
	}

	linked, err := s.linkedMinutes(ctx, row.TaskName)
	if err != nil {
		result.Error = "查询关联任务加时失败"
		return result
	}
	result.LinkedTaskMin = linked

	baseManMinutes := row.Quantity / speed // 纯作业人力分钟数

	var workMinutes, workers float64
	switch mode {
	case "fixed-workers":
		if row.WorkerCount == nil || *row.WorkerCount <= 0 {
			result.Error = "fixed-workers 模式下人数必须为正数"
			return result
		}
		workers = *row.WorkerCount
		workMinutes = baseManMinutes/workers + linked

	case "target-time":
		if row.TargetMin == nil || *row.TargetMin <= 0 {
			result.Error = "target-time 模式下目标时长必须为正数"
			return result
		}
		effective := *row.TargetMin - linked
		if effective <= 0 {
			result.Error = "目标时长必须大于关联任务固定加时"
			return result
		}
		workers = baseManMinutes / effective
		workMinutes = *row.TargetMin

	default:
		result.Error = "未知模拟模式: " + mode
		return result
	}

	// 跨午休的固定加时：作业窗口与午休窗口有交叠即触发
	duration := workMinutes
	if rowStart < lunchEnd && rowStart+workMinutes > lunchStart {
		duration += s.cfg.Worklog.LunchMinutes
		result.IncludesLunch = true
	}

	result.DurationMinutes = duration
	result.WorkerCount = workers
	// 人力成本按实际作业人力分钟计（关联任务加时按全员投入计入，午休不计薪）
	result.LaborCost = (baseManMinutes + linked*workers) * wage
	return result
}

// ── 内部辅助 ──

// speedFor 行速度来源优先级：人工覆盖 → 任务标准配置 → 历史加权平均
func (s *simulationService) speedFor(ctx context.Context, row *dto.SimulationRow) (float64, error) {
	if row.ManualSpeed != nil {
		if *row.ManualSpeed <= 0 {
			return 0, errors.New("人工速度必须为正数")
		}
		return *row.ManualSpeed, nil
	}

	name := strings.TrimSpace(row.TaskName)
	if task, err := s.repo.Task.GetByName(ctx, name); err == nil {
		if task.StandardSpeed != nil && *task.StandardSpeed > 0 {
			return *task.StandardSpeed, nil
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询任务配置失败", zap.String("task", name), zap.Error(err))
	}

	std, err := s.analytics.StandardFor(ctx, name)
	if err != nil {
		if errors.Is(err, ErrTaskNotFoundHistory) {
			return 0, nil
		}
		return 0, err
	}
	if std.InsufficientHistory {
		return 0, nil
	}
	return std.Speed, nil
}

// linkedMinutes 任务配置了前置关联任务时，取其历史单次平均时长作为固定加时
func (s *simulationService) linkedMinutes(ctx context.Context, taskName string) (float64, error) {
	task, err := s.repo.Task.GetByName(ctx, strings.TrimSpace(taskName))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if task.LinkedTask == nil || *task.LinkedTask == "" {
		return 0, nil
	}
	return s.analytics.LinkedTaskAverage(ctx, *task.LinkedTask)
}

// wagePerMinute 在岗成员的平均分钟工资；名册为空或无覆盖值时取全局默认
func (s *simulationService) wagePerMinute(ctx context.Context) (float64, error) {
	members, err := s.repo.Member.List(ctx, true)
	if err != nil {
		s.logger.Error("查询成员名册失败", zap.Error(err))
		return 0, err
	}
	var sum float64
	var count int
	for i := range members {
		if members[i].WagePerMin != nil && *members[i].WagePerMin > 0 {
			sum += *members[i].WagePerMin
			count++
		}
	}
	if count == 0 {
		return s.cfg.Worklog.WagePerMinute, nil
	}
	return sum / float64(count), nil
}

func (s *simulationService) lunchWindow() (start, end float64) {
	ls, err1 := worktime.Parse(s.cfg.Worklog.LunchStart)
	le, err2 := worktime.Parse(s.cfg.Worklog.LunchEnd)
	if err1 != nil || err2 != nil || !ls.Before(le) {
		// 配置损坏时退回默认午休窗口
		return 12*60 + 30, 13*60 + 30
	}
	return ls.Minutes(), le.Minutes()
}
