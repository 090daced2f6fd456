package handler

import "workingtime/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	WorkRecord *WorkRecordHandler
	Attendance *AttendanceHandler
	Snapshot   *SnapshotHandler
	Reconcile  *ReconcileHandler
	Analytics  *AnalyticsHandler
	Simulation *SimulationHandler
	Task       *TaskHandler
	Member     *MemberHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		WorkRecord: NewWorkRecordHandler(svc.WorkRecord),
		Attendance: NewAttendanceHandler(svc.Attendance),
		Snapshot:   NewSnapshotHandler(svc.Snapshot),
		Reconcile:  NewReconcileHandler(svc.Reconcile),
		Analytics:  NewAnalyticsHandler(svc.Analytics),
		Simulation: NewSimulationHandler(svc.Simulation),
		Task:       NewTaskHandler(svc.Task),
		Member:     NewMemberHandler(svc.Member),
	}
}
