package admin

import (
	"context"
	"fmt"
	"io"
	"strings"

	"docemania/internal/domains/testimonial/model"
	"docemania/internal/domains/testimonial/model/dto"
	"docemania/internal/resources"
	"docemania/transport/http/client"

	"github.com/urfave/cli/v2"
)

func (c *commands) testimonialCommand() *cli.Command {
	return &cli.Command{
		Name:  "testimonials",
		Usage: "customer testimonials",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "list testimonials, newest first",
				Action: c.listTestimonials,
			},
			{
				Name:  "add",
				Usage: "add a testimonial",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "text", Required: true},
					&cli.IntFlag{Name: "rating", Usage: "1 to 5", Value: int(model.MaxRating)},
					&cli.StringFlag{Name: "date", Usage: "YYYY-MM-DD, defaults to today"},
				},
				Action: c.addTestimonial,
			},
			{
				Name:      "update",
				Usage:     "change fields of a testimonial",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name"},
					&cli.StringFlag{Name: "text"},
					&cli.IntFlag{Name: "rating"},
					&cli.StringFlag{Name: "date"},
				},
				Action: c.updateTestimonial,
			},
			{
				Name:      "delete",
				Usage:     "remove a testimonial",
				ArgsUsage: "<id>",
				Action:    c.deleteTestimonial,
			},
		},
	}
}

func stars(rating model.Rating) string {
	if !rating.IsValid() {
		return "?"
	}

	return strings.Repeat("*", int(rating))
}

func (c *commands) printTestimonials(items []dto.TestimonialResponse) {
	c.table("ID\tNAME\tRATING\tDATE\tTEXT", func(w io.Writer) {
		for _, item := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", item.ID, item.Name, stars(item.Rating), item.Date, item.Text)
		}
	})
}

func (c *commands) listTestimonials(ctx *cli.Context) error {
	testimonials := resources.NewTestimonials(c.api, c.notifier)

	if !testimonials.List(ctx.Context) {
		return errListFailed
	}

	c.list(testimonials.Len(), emptyTestimonials, func() { c.printTestimonials(testimonials.Items()) })

	return nil
}

func (c *commands) addTestimonial(ctx *cli.Context) error {
	fields := dto.CreateTestimonialRequest{
		Name:   ctx.String("name"),
		Text:   ctx.String("text"),
		Rating: model.Rating(ctx.Int("rating")),
		Date:   ctx.String("date"),
	}

	return c.session(ctx, func(reqCtx context.Context, api *client.Client) error {
		item, err := resources.NewTestimonials(api, c.notifier).Create(reqCtx, fields)
		if err != nil {
			return err
		}

		c.printTestimonials([]dto.TestimonialResponse{item})

		return nil
	})
}

func (c *commands) updateTestimonial(ctx *cli.Context) error {
	id, err := requireID(ctx)
	if err != nil {
		return err
	}

	fields := dto.UpdateTestimonialRequest{
		Name: optional(ctx, "name"),
		Text: optional(ctx, "text"),
		Date: optional(ctx, "date"),
	}

	if ctx.IsSet("rating") {
		rating := model.Rating(ctx.Int("rating"))
		fields.Rating = &rating
	}

	return c.session(ctx, func(reqCtx context.Context, api *client.Client) error {
		item, err := resources.NewTestimonials(api, c.notifier).Update(reqCtx, id, fields)
		if err != nil {
			return err
		}

		c.printTestimonials([]dto.TestimonialResponse{item})

		return nil
	})
}

func (c *commands) deleteTestimonial(ctx *cli.Context) error {
	id, err := requireID(ctx)
	if err != nil {
		return err
	}

	return c.session(ctx, func(reqCtx context.Context, api *client.Client) error {
		if !resources.NewTestimonials(api, c.notifier).Delete(reqCtx, id) {
			return errDeleteFailed
		}

		return nil
	})
}
