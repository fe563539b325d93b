package demo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"openpublish/internal/logging"
	"openpublish/internal/ordergroups"
	"openpublish/internal/plugin"
)

// Families used by the demo instances.
const (
	FamilyModel  = "model"
	FamilyRig    = "rig"
	FamilyCamera = "camera"
)

// Options controls the demo pipeline.
type Options struct {
	// Fail makes ValidateNamingFailure report an error for every instance.
	Fail bool
}

// Register adds the demo plugins to reg. The returned names are in
// registration order.
func Register(reg *plugin.Registry, opts Options) []string {
	plugins := Plugins(opts)
	names := make([]string, 0, len(plugins))
	for _, p := range plugins {
		reg.Register(p)
		names = append(names, p.Name)
	}
	return names
}

// Plugins builds the demo plugin set. The set deliberately includes one
// plugin without a process function, which discovery drops.
func Plugins(opts Options) []*plugin.Plugin {
	return []*plugin.Plugin{
		collectComment(),
		collectScene(),
		collectEarly(),
		collectLate(),
		validateInactive(),
		validateNamespace(),
		validateContext(),
		validateNamingFailure(opts.Fail),
		validateIncompatible(),
		extractModel(),
		integrateAsset(),
	}
}

func collectComment() *plugin.Plugin {
	return plugin.NewContextPlugin("CollectComment", ordergroups.CollectorOrder, func(_ context.Context, pub *plugin.Context, log *slog.Logger) error {
		pub.Set(plugin.KeyComment, "")
		log.Debug("comment reset")
		return nil
	})
}

func collectScene() *plugin.Plugin {
	p := plugin.NewContextPlugin("CollectScene", ordergroups.CollectorOrder, func(_ context.Context, pub *plugin.Context, log *slog.Logger) error {
		pub.CreateInstance("hero_model", FamilyModel)
		pub.CreateInstance("hero_rig", FamilyRig)
		cam := pub.CreateInstance("shot_cam", FamilyRig)
		cam.AddFamily(FamilyCamera)
		cam.SetPublish(false)
		log.Info("scene collected", logging.Int("instances", pub.Len()))
		return nil
	})
	p.Label = "Collect Scene"
	return p
}

func collectEarly() *plugin.Plugin {
	return plugin.NewContextPlugin("CollectWorkfile", ordergroups.CollectorOrder-0.49, func(_ context.Context, pub *plugin.Context, log *slog.Logger) error {
		inst := pub.CreateInstance("workfile", FamilyModel)
		inst.Set("source", "scene.ma")
		log.Info("collecting workfile")
		return nil
	})
}

func collectLate() *plugin.Plugin {
	return plugin.NewContextPlugin("CollectReview", ordergroups.CollectorOrder+0.49, func(_ context.Context, pub *plugin.Context, log *slog.Logger) error {
		for _, inst := range pub.Instances() {
			if inst.Family() == FamilyModel {
				inst.Set("review", true)
			}
		}
		log.Info("review flags collected")
		return nil
	})
}

func validateInactive() *plugin.Plugin {
	p := plugin.NewInstancePlugin("ValidateTopology", ordergroups.ValidatorOrder, func(_ context.Context, inst *plugin.Instance, log *slog.Logger) error {
		log.Info("validating topology", logging.Int("keys", len(inst.Keys())))
		return nil
	})
	p.Active = false
	p.Optional = true
	selectAction := plugin.NewAction("selectInvalid", func(_ context.Context, pub *plugin.Context, _ *plugin.Plugin, log *slog.Logger) error {
		log.Info("selecting invalid nodes", logging.Int("instances", pub.Len()))
		return nil
	})
	selectAction.On = plugin.OnProcessed
	selectAction.Icon = "hand-o-up"
	report := plugin.NewAction("report", func(_ context.Context, _ *plugin.Context, p *plugin.Plugin, log *slog.Logger) error {
		log.Info("topology report", logging.String("plugin", p.Label))
		return nil
	})
	p.Actions = []*plugin.Action{selectAction, report}
	return p
}

func validateNamespace() *plugin.Plugin {
	p := plugin.NewInstancePlugin("ValidateNamespace", ordergroups.ValidatorOrder, func(_ context.Context, inst *plugin.Instance, log *slog.Logger) error {
		log.Info("validating namespace", logging.String("family", inst.Family()))
		return nil
	})
	p.Families = []string{FamilyRig}
	return p
}

func validateContext() *plugin.Plugin {
	p := plugin.NewContextPlugin("ValidateContext", ordergroups.ValidatorOrder, func(_ context.Context, pub *plugin.Context, log *slog.Logger) error {
		log.Info("processing context", logging.Int("instances", pub.Len()))
		return nil
	})
	p.Families = []string{FamilyModel, FamilyCamera}
	return p
}

// ErrNaming is returned by ValidateNamingFailure when the demo runs with
// Options.Fail.
var ErrNaming = errors.New("instance name does not follow the naming convention")

func validateNamingFailure(fail bool) *plugin.Plugin {
	p := plugin.NewInstancePlugin("ValidateNamingFailure", ordergroups.ValidatorOrder+0.1, func(_ context.Context, inst *plugin.Instance, log *slog.Logger) error {
		if !fail {
			return nil
		}
		log.Warn("about to fail")
		return fmt.Errorf("%s: %w", inst.Name(), ErrNaming)
	})
	p.Optional = true
	p.Families = []string{FamilyModel}
	repair := plugin.NewAction("repair", func(_ context.Context, pub *plugin.Context, _ *plugin.Plugin, log *slog.Logger) error {
		for _, inst := range pub.Instances() {
			if inst.Family() == FamilyModel {
				inst.Set(plugin.KeyName, inst.Name()+"_GEO")
			}
		}
		log.Info("instances renamed")
		return nil
	})
	repair.On = plugin.OnFailed
	p.Actions = []*plugin.Action{repair}
	return p
}

func validateIncompatible() *plugin.Plugin {
	return plugin.NewInstancePlugin("ValidateIsIncompatible", ordergroups.ValidatorOrder, nil)
}

func extractModel() *plugin.Plugin {
	p := plugin.NewInstancePlugin("ExtractModel", ordergroups.ExtractorOrder, func(_ context.Context, inst *plugin.Instance, log *slog.Logger) error {
		log.Info("extracting")
		inst.Set("extracted", true)
		return nil
	})
	p.Families = []string{FamilyModel}
	return p
}

func integrateAsset() *plugin.Plugin {
	p := plugin.NewInstancePlugin("IntegrateAsset", ordergroups.IntegratorOrder, func(_ context.Context, inst *plugin.Instance, log *slog.Logger) error {
		extracted, _ := inst.Data("extracted")
		log.Info("integrated", logging.Any("extracted", extracted))
		return nil
	})
	p.Optional = true
	return p
}
