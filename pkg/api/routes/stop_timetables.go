package routes

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/rs/zerolog/log"
	"github.com/travigo/timetable-sheets/pkg/ctdf"
)

func StopTimetablesRouter(router fiber.Router, store Store) {
	router.Get("/", listStopTimetables(store))
	router.Get("/:identifier", getStopTimetable(store))
	router.Get("/:identifier/departures", getStopTimetableDepartures(store))
}

func listStopTimetables(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := StopTimetableFilter{
			Dataset:  c.Query("dataset"),
			Document: c.Query("document"),
			StopName: c.Query("stop"),
		}

		if filter.Dataset == "" && filter.Document == "" && filter.StopName == "" {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "A filter must be applied to the request",
			})
		}

		if limit := c.Query("limit"); limit != "" {
			parsed, err := strconv.Atoi(limit)
			if err != nil || parsed <= 0 {
				c.SendStatus(fiber.StatusBadRequest)
				return c.JSON(fiber.Map{
					"error": "Limit must be a positive integer",
				})
			}
			filter.Limit = parsed
		}

		stopTimetables, err := store.ListStopTimetables(c.Context(), filter)
		if err != nil {
			log.Error().Err(err).Msg("Failed to list stop timetables")
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Could not list stop timetables",
			})
		}

		stopTimetablesReduced, err := sheriff.Marshal(&sheriff.Options{
			Groups: []string{"basic"},
		}, stopTimetables)
		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Sherrif could not reduce stopTimetables",
			})
		}

		return c.JSON(stopTimetablesReduced)
	}
}

func lookupStopTimetable(c *fiber.Ctx, store Store) (*ctdf.StopTimetable, error) {
	stopTimetable, err := store.GetStopTimetable(c.Context(), c.Params("identifier"))
	if err != nil {
		log.Error().Err(err).Str("identifier", c.Params("identifier")).Msg("Failed to get stop timetable")
		c.SendStatus(fiber.StatusInternalServerError)
		return nil, c.JSON(fiber.Map{
			"error": "Could not get stop timetable",
		})
	}

	if stopTimetable == nil {
		c.SendStatus(fiber.StatusNotFound)
		return nil, c.JSON(fiber.Map{
			"error": "Could not find Stop Timetable matching identifier",
		})
	}

	return stopTimetable, nil
}

func getStopTimetable(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stopTimetable, err := lookupStopTimetable(c, store)
		if stopTimetable == nil {
			return err
		}

		stopTimetableReduced, err := sheriff.Marshal(&sheriff.Options{
			Groups: []string{"basic", "detailed"},
		}, stopTimetable)
		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Sherrif could not reduce stopTimetable",
			})
		}

		return c.JSON(stopTimetableReduced)
	}
}

type departure struct {
	ScheduleClass string
	Time          string
}

// getStopTimetableDepartures lists departures as HH:MM, optionally limited to one schedule class
func getStopTimetableDepartures(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stopTimetable, err := lookupStopTimetable(c, store)
		if stopTimetable == nil {
			return err
		}

		scheduleClasses := stopTimetable.ScheduleClasses
		if label := c.Query("class"); label != "" {
			scheduleClass := stopTimetable.GetScheduleClass(label)
			if scheduleClass == nil {
				c.SendStatus(fiber.StatusNotFound)
				return c.JSON(fiber.Map{
					"error": "Stop Timetable has no such schedule class",
				})
			}

			scheduleClasses = []*ctdf.ScheduleClass{scheduleClass}
		}

		departures := []departure{}
		for _, scheduleClass := range scheduleClasses {
			for _, departureTime := range scheduleClass.DepartureTimes() {
				departures = append(departures, departure{
					ScheduleClass: scheduleClass.Label,
					Time:          fmt.Sprintf("%02d:%02d", int(departureTime.Hours()), int(departureTime.Minutes())%60),
				})
			}
		}

		return c.JSON(departures)
	}
}
