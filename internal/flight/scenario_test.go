package flight_test

import (
	"github.com/rs/zerolog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rocketsim/internal/config"
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/event"
	"github.com/san-kum/rocketsim/internal/flight"
	"github.com/san-kum/rocketsim/internal/models"
)

const step = 1.0 / 60

var _ = Describe("Controller", func() {
	var (
		cfg     *config.Config
		ctrl    *flight.Controller
		bus     *event.Bus
		changes []flight.StateChange
	)

	build := func() {
		bus = event.NewBus()
		changes = nil
		bus.Subscribe(flight.EventStateChanged, func(e event.Event) {
			changes = append(changes, e.(flight.StateChange))
		})
		var err error
		ctrl, err = flight.FromConfig(cfg, zerolog.Nop(), flight.WithBus(bus))
		Expect(err).NotTo(HaveOccurred())
	}

	run := func(n int) flight.Snapshot {
		var s flight.Snapshot
		for i := 0; i < n; i++ {
			s = ctrl.Step(step)
		}
		return s
	}

	BeforeEach(func() {
		cfg = config.DefaultConfig()
	})

	Context("dropped from altitude without thrust", func() {
		BeforeEach(func() {
			cfg.Start = config.StartConfig{Body: "earth", Altitude: 100}
			build()
		})

		It("is destroyed rather than landed", func() {
			s := ctrl.Snapshot()
			for i := 0; i < 600 && s.FlightState == models.Flying; i++ {
				s = ctrl.Step(step)
			}
			Expect(s.FlightState).To(Equal(models.Destroyed))
			Expect(changes).To(ContainElement(HaveField("Reason", flight.ReasonImpact)))
		})

		It("leaves the wreck where it hit", func() {
			s := run(600)
			Expect(s.FlightState).To(Equal(models.Destroyed))
			Expect(s.Health).To(BeZero())
			Expect(s.AttachedTo).To(Equal("earth"))

			wreck := s.Position
			s = run(60)
			Expect(s.Position).To(Equal(wreck))
			Expect(s.Velocity.IsZero()).To(BeTrue())
		})

		It("ignores thrust once destroyed", func() {
			run(600)
			applied, err := ctrl.SetThrusterPower(models.Main, 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(applied).To(BeZero())
		})
	})

	Context("resting on the orbiting moon", func() {
		BeforeEach(func() {
			cfg.Home = "moon"
			build()
		})

		It("rides the orbit", func() {
			moon, ok := ctrl.Universe().Body("moon")
			Expect(ok).To(BeTrue())
			start := moon.Position
			offset := ctrl.Vehicle().Position.Sub(moon.Position)

			s := run(120)
			Expect(s.FlightState).To(Equal(models.Landed))
			Expect(moon.Position.Distance(start)).To(BeNumerically(">", 1))
			got := s.Position.Sub(moon.Position)
			Expect(got.X).To(BeNumerically("~", offset.X, 1e-6))
			Expect(got.Y).To(BeNumerically("~", offset.Y, 1e-6))
		})

		It("lifts off away from the moon surface", func() {
			run(30)
			_, err := ctrl.SetThrusterPower(models.Main, 100)
			Expect(err).NotTo(HaveOccurred())
			s := run(1)

			moon, _ := ctrl.Universe().Body("moon")
			Expect(s.FlightState).To(Equal(models.Flying))
			Expect(s.LandedOn).To(BeEmpty())
			rel := s.Velocity.Sub(moon.Velocity)
			Expect(rel.Dot(moon.Normal(s.Position))).To(BeNumerically(">", 0))

			last := changes[len(changes)-1]
			Expect(last.Reason).To(Equal(flight.ReasonLiftoff))
			Expect(last.Body).To(Equal("moon"))
		})
	})

	Context("burning until the tank is empty", func() {
		BeforeEach(func() {
			cfg.Vehicle.FuelMax = 30
			build()
		})

		It("cuts thrust at zero fuel", func() {
			_, err := ctrl.SetThrusterPower(models.Main, 100)
			Expect(err).NotTo(HaveOccurred())

			s := run(240)
			Expect(s.Fuel).To(BeZero())
			Expect(s.ThrusterPowers[models.Main]).To(Equal(100.0))
			Expect(s.ThrusterForces[models.Main].IsZero()).To(BeTrue())
		})
	})

	Context("hovering under a fixed schedule", func() {
		BeforeEach(func() {
			cfg = config.GetPreset("hover")
			build()
		})

		It("starts in free flight above earth", func() {
			s := ctrl.Snapshot()
			Expect(s.FlightState).To(Equal(models.Flying))
			Expect(s.Assisted).To(BeTrue())
			Expect(s.Nearest).To(Equal("earth"))
			Expect(s.Altitude).To(BeNumerically("~", 150, 1e-9))
		})
	})

	Context("placed with the start options", func() {
		BeforeEach(func() {
			cfg.Start = config.StartConfig{Body: "earth", Altitude: 300, Bearing: 90, Tilt: 10}
			build()
		})

		It("converts degrees and measures bearing from the top", func() {
			v := ctrl.Vehicle()
			Expect(v.Angle).To(BeNumerically("~", dynamo.Deg(100), 1e-12))
			Expect(v.Position.X).To(BeNumerically("~", 720+v.Radius+300, 1e-9))
			Expect(v.Position.Y).To(BeNumerically("~", 0, 1e-9))
		})
	})
})
