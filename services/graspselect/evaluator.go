// Package graspselect chooses one executable grasp from a batch of perception candidates. Candidates
// are ranked by score, turned into a final and a retreated offset pose facing the nearest workspace
// corner, and accepted only when the planner can reach both.
package graspselect

import (
	"cmp"
	"context"
	"slices"

	"github.com/pkg/errors"

	"go.viam.com/graspexec/logging"
	"go.viam.com/graspexec/metrics"
	"go.viam.com/graspexec/referenceframe"
	"go.viam.com/graspexec/services/frametransform"
	"go.viam.com/graspexec/services/motion"
	"go.viam.com/graspexec/services/perception"
	"go.viam.com/graspexec/spatialmath"
)

// Config holds the fixed geometry of an evaluation.
type Config struct {
	SensorFrame    string
	BaseFrame      string
	Corners        []Corner
	Pitch          float64
	OffsetDistance float64
	// Start is the arm configuration every reachability plan starts from.
	Start referenceframe.JointConfiguration
}

// Target is an accepted grasp.
type Target struct {
	Candidate  perception.Candidate
	Final      referenceframe.PoseInFrame
	Offset     referenceframe.PoseInFrame
	OffsetPlan *motion.Plan
}

// Report counts the outcomes of one evaluation.
type Report struct {
	Candidates    int
	BadTransforms int
	BadGeometry   int
	Unreachable   int
	Attempted     []referenceframe.PoseInFrame
}

// A Selector picks a grasp target from a batch.
type Selector interface {
	Select(ctx context.Context, batch perception.Batch) (*Target, Report, error)
}

// Evaluator selects grasp targets.
type Evaluator struct {
	cfg          Config
	transformer  frametransform.Service
	reachability Reachability
	displayer    PoseDisplayer
	recorder     metrics.Recorder
	logger       logging.Logger
}

// NewEvaluator returns an Evaluator. displayer may be nil.
func NewEvaluator(
	cfg Config,
	transformer frametransform.Service,
	reachability Reachability,
	displayer PoseDisplayer,
	recorder metrics.Recorder,
	logger logging.Logger,
) *Evaluator {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Evaluator{
		cfg:          cfg,
		transformer:  transformer,
		reachability: reachability,
		displayer:    displayer,
		recorder:     recorder,
		logger:       logger,
	}
}

// rank returns a copy of candidates ordered by descending score. Equal scores keep arrival order.
func rank(candidates []perception.Candidate) []perception.Candidate {
	ranked := slices.Clone(candidates)
	slices.SortStableFunc(ranked, func(a, b perception.Candidate) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return ranked
}

// Select evaluates batch and returns the first candidate, by descending score, whose final and offset
// poses are both reachable. It returns ErrNoTargetFound when none is, and ErrConfiguration when there is
// nothing to evaluate against.
func (e *Evaluator) Select(ctx context.Context, batch perception.Batch) (*Target, Report, error) {
	var report Report
	if len(e.cfg.Corners) == 0 {
		return nil, report, NewConfigurationError("no reference corners configured")
	}
	if len(batch.Candidates) == 0 {
		return nil, report, NewConfigurationError("perception batch has no candidates")
	}

	frame := batch.Frame
	if frame == "" {
		frame = e.cfg.SensorFrame
	}
	ranked := rank(batch.Candidates)
	report.Candidates = len(ranked)

	for i, candidate := range ranked {
		target, err := e.evaluate(ctx, frame, candidate, &report)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, report, ctxErr
			}
			e.logger.Debugw("candidate rejected", "rank", i, "score", candidate.Score, "error", err)
			continue
		}
		e.recorder.IncCandidateOutcome(metrics.CandidateAccepted)
		e.logger.Infow("grasp target found",
			"score", candidate.Score,
			"rank", i,
			"final", target.Final.String(),
			"bad_transforms", report.BadTransforms,
			"bad_geometry", report.BadGeometry,
			"bad_plans", report.Unreachable,
		)
		e.display(ctx, []referenceframe.PoseInFrame{target.Final})
		return target, report, nil
	}

	e.display(ctx, report.Attempted)
	err := NewNoTargetFoundError(report)
	e.logger.Warn(err.Error())
	return nil, report, err
}

func (e *Evaluator) evaluate(
	ctx context.Context,
	frame string,
	candidate perception.Candidate,
	report *Report,
) (*Target, error) {
	sensorPose := referenceframe.NewPoseInFrame(frame, spatialmath.NewPoseFromPoint(candidate.Surface))
	basePose, err := e.transformer.Transform(ctx, sensorPose, e.cfg.BaseFrame)
	if err != nil {
		if ctx.Err() == nil {
			report.BadTransforms++
			e.recorder.IncCandidateOutcome(metrics.CandidateBadTransform)
		}
		return nil, err
	}

	point := basePose.Pose.Point()
	idx, err := NearestCorner(point, e.cfg.Corners)
	if err != nil {
		return nil, err
	}
	corner := e.cfg.Corners[idx]
	offsetPoint, ok := OffsetPoint(point, corner, e.cfg.OffsetDistance)
	if !ok {
		report.BadGeometry++
		e.recorder.IncCandidateOutcome(metrics.CandidateBadGeometry)
		return nil, errors.Errorf("grasp point %v coincides with corner %d", point, idx)
	}

	orientation := ApproachOrientation(point, corner, e.cfg.Pitch)
	final := referenceframe.NewPoseInFrame(e.cfg.BaseFrame, spatialmath.NewPose(point, orientation))
	offset := referenceframe.NewPoseInFrame(e.cfg.BaseFrame, spatialmath.NewPose(offsetPoint, orientation))
	report.Attempted = append(report.Attempted, final)

	offsetPlan, err := e.reachability.Check(ctx, final, offset, e.cfg.Start)
	if err != nil {
		if ctx.Err() == nil {
			report.Unreachable++
			e.recorder.IncCandidateOutcome(metrics.CandidatePlanInfeasible)
			if !errors.Is(err, motion.ErrPlanInfeasible) {
				e.logger.Warnw("reachability check failed", "error", err)
			}
		}
		return nil, err
	}
	return &Target{Candidate: candidate, Final: final, Offset: offset, OffsetPlan: offsetPlan}, nil
}

func (e *Evaluator) display(ctx context.Context, poses []referenceframe.PoseInFrame) {
	if e.displayer == nil {
		return
	}
	if err := e.displayer.DisplayPoses(ctx, e.cfg.BaseFrame, posesOf(poses)); err != nil {
		e.logger.Debugw("failed to display attempted poses", "error", err)
	}
}
