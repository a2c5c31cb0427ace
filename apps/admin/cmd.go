package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/trezcool/studymate/apps/api/echo"
	"github.com/trezcool/studymate/core"
	"github.com/trezcool/studymate/core/profile"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf       *core.Config
	db         *sqlx.DB // nil with the inmem engine
	profileSvc *profile.Service
	out        io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose migration command, eg: up, down, status, up-to VERSION")
	fmt.Fprintln(cli.out, "  tiers - print the tiers and award amounts in use")
	fmt.Fprintln(cli.out, "  award -profile ID|WALLET -reason REASON - award pass points to a profile")
	fmt.Fprintln(cli.out, "  resetpoints -profile ID|WALLET - bring a profile's pass points back to 0")
	fmt.Fprintln(cli.out, "  token -profile ID|WALLET [-admin] - generate an API token for a profile")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	awardCmd := flag.NewFlagSet("award", flag.ExitOnError)
	awardProfile := awardCmd.String("profile", "", "The profile's ID or wallet address.")
	awardReason := awardCmd.String("reason", "", "The award reason, eg: session_completed.")

	resetCmd := flag.NewFlagSet("resetpoints", flag.ExitOnError)
	resetProfile := resetCmd.String("profile", "", "The profile's ID or wallet address.")

	tokenCmd := flag.NewFlagSet("token", flag.ExitOnError)
	tokenProfile := tokenCmd.String("profile", "", "The profile's ID or wallet address.")
	tokenAdmin := tokenCmd.Bool("admin", false, "Allow the token to award and reset pass points.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "tiers":
		return cli.printTiers()
	case "award":
		if err := awardCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *awardProfile == "" || *awardReason == "" {
			awardCmd.SetOutput(cli.out)
			awardCmd.Usage()
			return errHelp
		}
		return cli.award(*awardProfile, *awardReason)
	case "resetpoints":
		if err := resetCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetProfile == "" {
			resetCmd.SetOutput(cli.out)
			resetCmd.Usage()
			return errHelp
		}
		return cli.resetPoints(*resetProfile)
	case "token":
		if err := tokenCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *tokenProfile == "" {
			tokenCmd.SetOutput(cli.out)
			tokenCmd.Usage()
			return errHelp
		}
		return cli.token(*tokenProfile, *tokenAdmin)
	default:
		cli.printUsage()
		return errHelp
	}
}

// getProfile finds a profile by wallet address if ref looks like one, by ID otherwise.
func (cli *commandLine) getProfile(ctx context.Context, ref string) (profile.Profile, error) {
	if strings.HasPrefix(strings.ToLower(ref), "0x") {
		return cli.profileSvc.GetByWallet(ctx, ref)
	}
	return cli.profileSvc.Get(ctx, ref)
}

func (cli *commandLine) printTiers() error {
	scheme := cli.profileSvc.Scheme()
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIER\tMIN\tMAX\tICON")
	for _, t := range scheme.Table.Tiers() {
		maxPoints := "∞"
		if !t.IsUnbounded() {
			maxPoints = fmt.Sprint(t.MaxPoints - 1)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", t.Name, t.MinPoints, maxPoints, scheme.Decorations.Lookup(t.Name).Icon)
	}
	fmt.Fprintln(w, "\nREASON\tPOINTS")
	amounts := scheme.Awards.Amounts()
	for _, r := range scheme.Awards.Reasons() {
		fmt.Fprintf(w, "%s\t%d\n", r, amounts[r])
	}
	return w.Flush()
}

func (cli *commandLine) award(ref, rawReason string) error {
	reason, err := cli.profileSvc.Scheme().Awards.ParseReason(core.CleanString(rawReason, true /* lower */))
	if err != nil {
		return err
	}
	ctx := context.Background()
	p, err := cli.getProfile(ctx, ref)
	if err != nil {
		return err
	}
	res, err := cli.profileSvc.AwardPassPoints(ctx, p.ID, reason)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s: +%d pass points (%s), balance %d, tier %s\n",
		p.Username, res.Award.Amount, res.Award.Reason, res.Profile.PassPoints, res.Tier.Name)
	if res.TierUp {
		fmt.Fprintf(cli.out, "%s moved up from %s!\n", p.Username, res.PreviousTier.Name)
	}
	return nil
}

func (cli *commandLine) resetPoints(ref string) error {
	ctx := context.Background()
	p, err := cli.getProfile(ctx, ref)
	if err != nil {
		return err
	}
	if _, err = cli.profileSvc.ResetPassPoints(ctx, p.ID); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s: pass points reset\n", p.Username)
	return nil
}

func (cli *commandLine) token(ref string, isAdmin bool) error {
	p, err := cli.getProfile(context.Background(), ref)
	if err != nil {
		return err
	}
	token, err := echoapi.GenerateToken(cli.conf, echoapi.GetProfileClaims(cli.conf, p, isAdmin))
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, token)
	return nil
}
