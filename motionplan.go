package motionplan

import (
	"github.com/arcline-robotics/motionplan/internal/benchdb"
	"github.com/arcline-robotics/motionplan/internal/config"
	"github.com/arcline-robotics/motionplan/internal/constraint"
	"github.com/arcline-robotics/motionplan/internal/model"
	"github.com/arcline-robotics/motionplan/internal/planning"
	"github.com/arcline-robotics/motionplan/internal/scene"
	"github.com/arcline-robotics/motionplan/internal/trajectory"
)

// Robot model surface.
type (
	Model         = model.Model
	Joint         = model.Joint
	JointType     = model.JointType
	JointGroup    = model.JointGroup
	VariableBound = model.VariableBound
	RobotState    = model.RobotState
	Pose          = model.Pose
)

const (
	Fixed     = model.Fixed
	Revolute  = model.Revolute
	Prismatic = model.Prismatic
	Planar    = model.Planar
	Floating  = model.Floating
)

var (
	NewModel      = model.NewModel
	NewRobotState = model.NewRobotState
	IdentityPose  = model.IdentityPose
)

// Scene surface.
type (
	Scene      = scene.Scene
	Static     = scene.Static
	Transforms = scene.Transforms
)

var (
	NewStatic     = scene.NewStatic
	NewTransforms = scene.NewTransforms
)

// Constraint surface.
type (
	Constraints     = constraint.Constraints
	JointConstraint = constraint.JointConstraint
	PoseConstraint  = constraint.PoseConstraint
	SamplerBuilder  = constraint.SamplerBuilder
	BoundsBuilder   = constraint.BoundsBuilder
)

// MergeConstraints combines two specifications; the first argument
// wins where both constrain the same joint.
var MergeConstraints = constraint.Merge

// Planning context surface.
type (
	Context          = planning.Context
	Spec             = planning.Spec
	LogWriters       = planning.LogWriters
	BenchmarkRun     = planning.BenchmarkRun
	BenchmarkAttempt = planning.BenchmarkAttempt
	BenchmarkSink    = planning.BenchmarkSink
)

var (
	New           = planning.New
	SetLogWriters = planning.SetLogWriters

	// ErrInvalidGoalConstraints reports goal constraint input that
	// yields no usable goal region.
	ErrInvalidGoalConstraints = planning.ErrInvalidGoalConstraints
)

// Trajectory surface.
type (
	Trajectory    = trajectory.Trajectory
	JointPoint    = trajectory.JointPoint
	MultiDOFPoint = trajectory.MultiDOFPoint
)

var SaveVelocityProfile = trajectory.SaveVelocityProfile

// Configuration and benchmark persistence surface.
type (
	ConfigFile  = config.File
	GroupConfig = config.GroupConfig
	BenchDB     = benchdb.DB
)

var (
	LoadConfig  = config.Load
	ParseConfig = config.Parse
	OpenBenchDB = benchdb.NewDB
)
