package admin

import (
	"context"
	"fmt"
	"io"

	"docemania/internal/domains/booking/model"
	"docemania/internal/domains/booking/model/dto"
	"docemania/internal/resources"
	"docemania/transport/http/client"

	"github.com/urfave/cli/v2"
)

func (c *commands) bookingCommand() *cli.Command {
	return &cli.Command{
		Name:  "bookings",
		Usage: "booking requests",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "list booking requests, newest first",
				Action: c.listBookings,
			},
			{
				Name:      "status",
				Usage:     "move a booking to pending, confirmed or cancelled",
				ArgsUsage: "<id> <status>",
				Action:    c.setBookingStatus,
			},
			{
				Name:      "delete",
				Usage:     "permanently remove a booking",
				ArgsUsage: "<id>",
				Action:    c.deleteBooking,
			},
		},
	}
}

func (c *commands) printBookings(items []dto.BookingResponse) {
	c.table("ID\tNAME\tEVENT\tCAKE\tSTATUS\tCONTACT", func(w io.Writer) {
		for _, item := range items {
			contact := item.WhatsApp
			if contact == "" {
				contact = item.Phone
			}

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", item.ID, item.Name, item.EventDate, item.CakeType, item.StatusLabel, contact)
		}
	})
}

func (c *commands) listBookings(ctx *cli.Context) error {
	return c.session(ctx, func(reqCtx context.Context, api *client.Client) error {
		bookings := resources.NewBookings(api, c.notifier)

		if !bookings.List(reqCtx) {
			return errListFailed
		}

		c.list(bookings.Len(), emptyBookings, func() { c.printBookings(bookings.Items()) })

		return nil
	})
}

func (c *commands) setBookingStatus(ctx *cli.Context) error {
	id, err := requireID(ctx)
	if err != nil {
		return err
	}

	status := model.Status(ctx.Args().Get(1))
	if !status.IsValid() {
		return fmt.Errorf("invalid status %q", status)
	}

	return c.session(ctx, func(reqCtx context.Context, api *client.Client) error {
		item, err := resources.NewBookings(api, c.notifier).Update(reqCtx, id, dto.UpdateBookingRequest{Status: &status})
		if err != nil {
			return err
		}

		c.printBookings([]dto.BookingResponse{item})

		return nil
	})
}

func (c *commands) deleteBooking(ctx *cli.Context) error {
	id, err := requireID(ctx)
	if err != nil {
		return err
	}

	return c.session(ctx, func(reqCtx context.Context, api *client.Client) error {
		if !resources.NewBookings(api, c.notifier).Delete(reqCtx, id) {
			return errDeleteFailed
		}

		return nil
	})
}
