package confirm_test

import (
	"context"
	"encoding/json"
	"testing"

	"go.viam.com/test"

	"go.viam.com/graspexec/bus"
	"go.viam.com/graspexec/confirm"
	"go.viam.com/graspexec/logging"
	"go.viam.com/graspexec/services/motion"
)

func TestGateRedisplaysUntilExecute(t *testing.T) {
	logger := logging.NewTestLogger(t)
	lb := bus.NewLoopback()
	decider := confirm.NewScripted(confirm.Redisplay, confirm.Redisplay, confirm.Execute)
	gate := confirm.NewGate(decider, confirm.NewBusDisplayer(lb, "display.trajectory"), logger)

	plan := &motion.Plan{ID: "abc", Waypoints: []motion.Waypoint{{Positions: []float64{1}}}}
	test.That(t, gate.Confirm(context.Background(), confirm.Proposal{Description: "approach", Plan: plan}), test.ShouldBeNil)
	test.That(t, decider.Asked(), test.ShouldHaveLength, 3)

	displayed := lb.Published("display.trajectory")
	test.That(t, displayed, test.ShouldHaveLength, 3)
	var msg map[string]interface{}
	test.That(t, json.Unmarshal(displayed[2], &msg), test.ShouldBeNil)
	test.That(t, msg["plan_id"], test.ShouldEqual, "abc")
	test.That(t, msg["description"], test.ShouldEqual, "approach")
}

func TestGateCancelled(t *testing.T) {
	logger := logging.NewTestLogger(t)
	gate := confirm.NewGate(confirm.AlwaysExecute{}, nil, logger)

	test.That(t, gate.Confirm(context.Background(), confirm.Proposal{Description: "home"}), test.ShouldBeNil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := gate.Confirm(ctx, confirm.Proposal{Description: "home"})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "confirming home")
}

func TestDecisionString(t *testing.T) {
	test.That(t, confirm.Execute.String(), test.ShouldEqual, "execute")
	test.That(t, confirm.Redisplay.String(), test.ShouldEqual, "display again")
}
