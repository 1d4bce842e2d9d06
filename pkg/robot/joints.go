// Package robot provides the manipulator boundary: pose and joint types, the
// named configurations the arm is commanded to, and actuator implementations.
package robot

// JointName identifies a joint of the 6-axis arm.
type JointName string

// Joint names for the 6-axis arm, base to tool.
const (
	Base     JointName = "base"
	Shoulder JointName = "shoulder"
	Elbow    JointName = "elbow"
	WristOne JointName = "wrist_1"
	WristTwo JointName = "wrist_2"
	Tool     JointName = "tool"
)

// AllJoints returns all joint names in order (matching joint indices 0-5).
func AllJoints() []JointName {
	return []JointName{
		Base,
		Shoulder,
		Elbow,
		WristOne,
		WristTwo,
		Tool,
	}
}

// JointAngles holds one angle per joint in degrees, base first.
type JointAngles [6]float64

// ToolRotation returns joint angles that only turn the tool joint by deg.
func ToolRotation(deg float64) JointAngles {
	var j JointAngles
	j[5] = deg
	return j
}

// Add returns the element-wise sum of two joint vectors.
func (j JointAngles) Add(o JointAngles) JointAngles {
	for i := range j {
		j[i] += o[i]
	}
	return j
}

// ByName returns the angles keyed by joint name.
func (j JointAngles) ByName() map[JointName]float64 {
	out := make(map[JointName]float64, len(j))
	for i, name := range AllJoints() {
		out[name] = j[i]
	}
	return out
}

// Configuration is a named joint configuration together with the tool pose
// the arm reaches there.
type Configuration struct {
	Name   string
	Joints JointAngles
	Pose   AbsolutePose
}

// Named configurations used by the sequencer.
var (
	// Home is the folded rest configuration every cycle starts and ends in.
	Home = Configuration{
		Name:   "home",
		Joints: JointAngles{0, -90, 0, 0, 0, 0},
		Pose:   NewAbsolutePose(207, 0, 112, 180, 0, 0),
	}

	// ApproachPlane raises the wrist camera above the row so the stalk is
	// in view and the gripper can sweep in the horizontal plane.
	ApproachPlane = Configuration{
		Name:   "approach_plane",
		Joints: JointAngles{0, -78.4, -21.1, 0, 10.4, 0},
		Pose:   NewAbsolutePose(256.3, 0, 401.7, 180, 0, 0),
	}
)
