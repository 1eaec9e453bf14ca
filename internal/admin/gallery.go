package admin

import (
	"context"
	"fmt"
	"io"

	"docemania/internal/domains/gallery/model/dto"
	"docemania/internal/resources"
	"docemania/transport/http/client"

	"github.com/urfave/cli/v2"
)

func (c *commands) galleryCommand() *cli.Command {
	return &cli.Command{
		Name:  "gallery",
		Usage: "gallery items",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "list gallery items, newest first",
				Flags:  []cli.Flag{&cli.StringFlag{Name: "category", Usage: "only items of this category"}},
				Action: c.listGallery,
			},
			{
				Name:  "add",
				Usage: "upload an image and create a gallery item",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Required: true},
					&cli.StringFlag{Name: "description"},
					&cli.StringFlag{Name: "category", Required: true},
					&cli.StringFlag{Name: "image", Usage: "path to a png, jpeg or webp file", Required: true},
				},
				Action: c.addGallery,
			},
			{
				Name:      "update",
				Usage:     "change fields of a gallery item",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title"},
					&cli.StringFlag{Name: "description"},
					&cli.StringFlag{Name: "category"},
				},
				Action: c.updateGallery,
			},
			{
				Name:      "delete",
				Usage:     "remove a gallery item and its image",
				ArgsUsage: "<id>",
				Action:    c.deleteGallery,
			},
		},
	}
}

func (c *commands) printGallery(items []dto.GalleryItemResponse) {
	c.table("ID\tTITLE\tCATEGORY\tIMAGE", func(w io.Writer) {
		for _, item := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", item.ID, item.Title, item.Category, item.ImageURL)
		}
	})
}

func (c *commands) listGallery(ctx *cli.Context) error {
	gallery := resources.NewGalleryItems(c.api, c.notifier, ctx.String("category"))

	if !gallery.List(ctx.Context) {
		return errListFailed
	}

	c.list(gallery.Len(), emptyGallery, func() { c.printGallery(gallery.Items()) })

	return nil
}

func (c *commands) addGallery(ctx *cli.Context) error {
	file, name, err := openFile(ctx.String("image"))
	if err != nil {
		return err
	}
	defer file.Close()

	return c.session(ctx, func(reqCtx context.Context, api *client.Client) error {
		url, err := resources.NewGalleryUploader(api, c.notifier).Upload(reqCtx, name, "", file)
		if err != nil {
			return err
		}

		gallery := resources.NewGalleryItems(api, c.notifier, "")

		item, err := gallery.Create(reqCtx, dto.CreateGalleryItemRequest{
			Title:       ctx.String("title"),
			Description: ctx.String("description"),
			ImageURL:    url,
			Category:    ctx.String("category"),
		})
		if err != nil {
			return err
		}

		c.printGallery([]dto.GalleryItemResponse{item})

		return nil
	})
}

func (c *commands) updateGallery(ctx *cli.Context) error {
	id, err := requireID(ctx)
	if err != nil {
		return err
	}

	fields := dto.UpdateGalleryItemRequest{
		Title:       optional(ctx, "title"),
		Description: optional(ctx, "description"),
		Category:    optional(ctx, "category"),
	}

	return c.session(ctx, func(reqCtx context.Context, api *client.Client) error {
		item, err := resources.NewGalleryItems(api, c.notifier, "").Update(reqCtx, id, fields)
		if err != nil {
			return err
		}

		c.printGallery([]dto.GalleryItemResponse{item})

		return nil
	})
}

func (c *commands) deleteGallery(ctx *cli.Context) error {
	id, err := requireID(ctx)
	if err != nil {
		return err
	}

	return c.session(ctx, func(reqCtx context.Context, api *client.Client) error {
		if !resources.NewGalleryItems(api, c.notifier, "").Delete(reqCtx, id) {
			return errDeleteFailed
		}

		return nil
	})
}
