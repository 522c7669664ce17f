// Package ruleset provides the builtin rule catalogue: the transformation
// rules, quote configs, protected-span specs, entity table, and shared
// letter data that ship with the engine.
//
// Everything registers through the same provider contract external
// catalogues use; nothing in here is special-cased by the engine.
// Registration order is canonical and load-bearing: rules with equal sort
// priority keep it as their evaluation order.
package ruleset

import (
	"sync"

	"github.com/typograf/typograf/rules"
)

var once sync.Once

// RegisterDefault installs the builtin catalogue into the default registry,
// once per process. Engines on the default registry call this from New.
func RegisterDefault() {
	once.Do(func() {
		if err := Register(rules.Default); err != nil {
			// The builtin catalogue is static; failing to register it is a
			// build defect, not a runtime condition.
			panic(err)
		}
	})
}

// Register installs the builtin catalogue into reg in canonical order:
// shared data, quote configs, safe tags, entities, then the rules.
// Tests use this to equip isolated registries.
func Register(reg *rules.Registry) error {
	registerData(reg)
	registerQuoteConfigs(reg)
	if err := registerSafeTags(reg); err != nil {
		return err
	}
	registerEntities(reg)
	if err := registerCommon(reg); err != nil {
		return err
	}
	if err := registerRu(reg); err != nil {
		return err
	}
	return registerEn(reg)
}

func registerData(reg *rules.Registry) {
	reg.SetData("ru/letters", "а-яё")
	reg.SetData("en/letters", "a-z")
}
