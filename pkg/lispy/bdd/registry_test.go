package bdd_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lispy-lang/lispy/pkg/lispy/bdd"
)

var _ = Describe("Registry", func() {
	var reg *bdd.Registry

	BeforeEach(func() {
		reg = bdd.New()
	})

	Describe("a single feature with one passing scenario", func() {
		It("records a passed step and rolls it up into the report", func() {
			reg.StartFeature("a calculator")
			_, err := reg.StartScenario("adds two numbers")
			Expect(err).NotTo(HaveOccurred())

			Expect(reg.RecordStep("Given", "two numbers", nil)).To(Succeed())
			Expect(reg.RecordStep("Then", "their sum is correct", nil)).To(Succeed())

			reg.EndScenario()
			reg.EndFeature()

			report := reg.Report()
			Expect(report.Features).To(Equal(1))
			Expect(report.Scenarios).To(Equal(1))
			Expect(report.PassedScenarios).To(Equal(1))
			Expect(report.FailedSteps).To(Equal(0))
		})
	})

	Describe("a failing step", func() {
		It("marks the scenario failed and records the detail", func() {
			reg.StartFeature("a calculator")
			reg.StartScenario("divides by zero")
			Expect(reg.RecordStep("Then", "it errors", errors.New("boom"))).To(Succeed())
			reg.EndScenario()
			reg.EndFeature()

			feature := reg.Results[0]
			Expect(feature.Scenarios[0].Failed()).To(BeTrue())
			Expect(feature.Scenarios[0].Steps[0].Detail).To(Equal("boom"))
		})
	})

	Describe("nested describe", func() {
		It("is not nested — each describe starts a new top-level feature", func() {
			reg.StartFeature("outer")
			reg.StartFeature("inner") // deliberately not nested, per spec.md §4.9
			Expect(reg.Results).To(HaveLen(2))
		})
	})

	Describe("steps outside any scenario", func() {
		It("errors instead of panicking", func() {
			err := reg.RecordStep("Given", "nothing active", nil)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("InScenario", func() {
		It("reflects whether a scenario is active, for when-disambiguation", func() {
			Expect(reg.InScenario()).To(BeFalse())
			reg.StartFeature("f")
			reg.StartScenario("s")
			Expect(reg.InScenario()).To(BeTrue())
			reg.EndScenario()
			Expect(reg.InScenario()).To(BeFalse())
		})
	})
})
