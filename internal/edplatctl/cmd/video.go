package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khaledhosny129/Educational-platform/api/types/v1alpha1"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/catalog"
	"github.com/khaledhosny129/Educational-platform/internal/edplatctl/util"
)

const keyHelp = `KEY is grade/level/part/session, where part is u<unit> for a unit video
or r<revision> for a revision video, e.g. G10/L2/u3/S1 or G10/L2/r1/S1.`

// parseKeyArg validates a KEY argument and returns its canonical path
func parseKeyArg(arg string) (string, error) {
	segments := strings.Split(strings.Trim(arg, "/"), "/")
	if len(segments) != 4 {
		return "", fmt.Errorf("invalid video key %q: expected grade/level/part/session", arg)
	}
	key, err := catalog.ParseKey(segments[0], segments[1], segments[2], segments[3])
	if err != nil {
		return "", err
	}
	return key.Path(), nil
}

func newVideoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "video",
		Short: "Manage and watch catalog videos",
		Long:  "Manage the video catalog (admin) and fetch activated videos (user).\n\n" + keyHelp,
	}

	cmd.AddCommand(
		newVideoCreateCmd(),
		newVideoUpdateCmd(),
		newVideoDeleteCmd(),
		newVideoListCmd(),
		newVideoGetCmd(),
	)
	return cmd
}

func printVideo(cmd *cobra.Command, video *v1alpha1.Video, output string) error {
	if output == "json" {
		return util.PrintJSON(cmd.OutOrStdout(), video)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Title:       %s\n", video.Title)
	fmt.Fprintf(cmd.OutOrStdout(), "Description: %s\n", video.Description)
	fmt.Fprintf(cmd.OutOrStdout(), "URL:         %s\n", video.URL)
	return nil
}

func newVideoCreateCmd() *cobra.Command {
	var (
		youtube string
		output  string
	)

	cmd := &cobra.Command{
		Use:     "create KEY",
		Short:   "Add a video to the catalog",
		Example: `  edplatctl video create G10/L2/u3/S1 --youtube=dQw4w9WgXcQ`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseKeyArg(args[0])
			if err != nil {
				return err
			}

			c, err := getClient()
			if err != nil {
				return err
			}

			video, err := c.CreateVideo(cmd.Context(), key, youtube)
			if err != nil {
				return fmt.Errorf("error creating video: %w", err)
			}
			return printVideo(cmd, video, output)
		},
	}

	cmd.Flags().StringVar(&youtube, "youtube", "", "YouTube video code (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format (json)")
	if err := cmd.MarkFlagRequired("youtube"); err != nil {
		panic(fmt.Sprintf("failed to mark %q flag as required: %v", "youtube", err))
	}
	return cmd
}

func newVideoUpdateCmd() *cobra.Command {
	var (
		youtube string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "update KEY",
		Short: "Point a video at a new YouTube code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseKeyArg(args[0])
			if err != nil {
				return err
			}

			c, err := getClient()
			if err != nil {
				return err
			}

			video, err := c.UpdateVideo(cmd.Context(), key, youtube)
			if err != nil {
				return fmt.Errorf("error updating video: %w", err)
			}
			return printVideo(cmd, video, output)
		},
	}

	cmd.Flags().StringVar(&youtube, "youtube", "", "YouTube video code (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format (json)")
	if err := cmd.MarkFlagRequired("youtube"); err != nil {
		panic(fmt.Sprintf("failed to mark %q flag as required: %v", "youtube", err))
	}
	return cmd
}

func newVideoDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete KEY",
		Short: "Remove a video and every activation of it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseKeyArg(args[0])
			if err != nil {
				return err
			}

			c, err := getClient()
			if err != nil {
				return err
			}

			if err := c.DeleteVideo(cmd.Context(), key); err != nil {
				return fmt.Errorf("error deleting video: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Video %s deleted\n", key)
			return nil
		},
	}
}

func newVideoListCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getClient()
			if err != nil {
				return err
			}

			videos, err := c.ListVideos(cmd.Context())
			if err != nil {
				return fmt.Errorf("error listing videos: %w", err)
			}

			if output == "json" {
				return util.PrintJSON(cmd.OutOrStdout(), videos)
			}

			tw := util.NewTabWriter(cmd.OutOrStdout())
			defer tw.Flush()

			fmt.Fprintf(tw, "KEY\tTITLE\tYOUTUBE\n")
			for _, v := range videos {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", keyPath(v.Key), v.Title, v.YouTubeCode)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")
	return cmd
}

func newVideoGetCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Fetch a video you hold a live activation for",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseKeyArg(args[0])
			if err != nil {
				return err
			}

			c, err := getClient()
			if err != nil {
				return err
			}

			video, err := c.GetVideo(cmd.Context(), key)
			if err != nil {
				return fmt.Errorf("error fetching video: %w", err)
			}
			return printVideo(cmd, video, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format (json)")
	return cmd
}

// keyPath renders an API video key as a KEY argument
func keyPath(k v1alpha1.VideoKey) string {
	part := "u" + k.Unit
	if k.Kind == v1alpha1.VideoKindRevision {
		part = "r" + k.Revision
	}
	return strings.Join([]string{k.Grade, k.Level, part, k.Session}, "/")
}
