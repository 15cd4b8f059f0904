package flight

// SyncManager reconciles the vehicle model with its engine body. The engine
// is authoritative while the vehicle moves freely; the model is while it is
// attached to a body.
type SyncManager struct {
	ctx *Context
}

func NewSyncManager(ctx *Context) *SyncManager {
	return &SyncManager{ctx: ctx}
}

// EngineAuthoritative reports whether the engine owns the vehicle's motion.
func (s *SyncManager) EngineAuthoritative() bool {
	return s.ctx.Vehicle.Anchor() == ""
}

// Pull copies the engine body into the model.
func (s *SyncManager) Pull() {
	v, e, h := s.ctx.Vehicle, s.ctx.Engine, s.ctx.vehicle
	v.Position = e.Position(h)
	v.Velocity = e.Velocity(h)
	v.Angle = e.Angle(h)
	v.AngularVelocity = e.AngularVelocity(h)
}

// Push copies the model into the engine body.
func (s *SyncManager) Push() {
	v, e, h := s.ctx.Vehicle, s.ctx.Engine, s.ctx.vehicle
	e.SetPosition(h, v.Position)
	e.SetVelocity(h, v.Velocity)
	e.SetAngle(h, v.Angle)
	e.SetAngularVelocity(h, v.AngularVelocity)
}

// Reconcile pushes the authoritative side into the other.
func (s *SyncManager) Reconcile() {
	if s.EngineAuthoritative() {
		s.Pull()
	} else {
		s.Push()
	}
}

var _ StateSync = (*SyncManager)(nil)
