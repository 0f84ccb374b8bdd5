package cmd

import (
	"encoding/hex"
	"errors"
	"fmt"

	clientapp "github.com/asokol123/yggdrasil-dns/application/client"
	"github.com/asokol123/yggdrasil-dns/crypto/sign"
	"github.com/asokol123/yggdrasil-dns/protocol"
	"github.com/spf13/cobra"
)

var errBadSignature = errors.New("[dns] Signature does not verify")

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <signature> [message]",
		Short: "Check a hex signature the way the registry does.",
		Long: `Check a hex-encoded signature over message with the configured
public key, or with the shared secret if auth is "hmac".

Instead of message, --owner, --site and --timestamp rebuild the
message a set_site request signs.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runVerify,
	}
	cmd.Flags().String("pubkey", "", "Public key file (default public_key_path from the config)")
	cmd.Flags().String("owner", "", "Owner of a set_site request")
	cmd.Flags().String("site", "", "Site of a set_site request")
	cmd.Flags().Int64("timestamp", 0, "Timestamp of a set_site request")
	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sig, err := hex.DecodeString(args[0])
	if err != nil {
		return fmt.Errorf("signature is not hex: %v", err)
	}
	message, err := verifyMessage(cmd, args)
	if err != nil {
		return err
	}

	var ok bool
	if conf.Auth == clientapp.AuthHMAC {
		cred, err := clientapp.LoadCredential(conf)
		if err != nil {
			return err
		}
		secret, isSecret := cred.(sign.SecretKey)
		ok = isSecret && secret.Verify(message, sig)
	} else {
		if path, _ := cmd.Flags().GetString("pubkey"); path != "" {
			conf.PublicKeyPath = path
		}
		pub, err := clientapp.LoadVerifyingKey(conf)
		if err != nil {
			return err
		}
		ok = pub.Verify(message, sig)
	}
	if !ok {
		return errBadSignature
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Signature OK")
	return nil
}

func verifyMessage(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 2 {
		return []byte(args[1]), nil
	}
	flags := cmd.Flags()
	if !flags.Changed("owner") || !flags.Changed("site") || !flags.Changed("timestamp") {
		return nil, errors.New("either a message or all of --owner, --site and --timestamp are required")
	}
	owner, _ := flags.GetString("owner")
	site, _ := flags.GetString("site")
	ts, _ := flags.GetInt64("timestamp")
	return protocol.SigningMessage(protocol.SetSiteCommand, protocol.Params{
		protocol.FieldOwner:     owner,
		protocol.FieldSite:      site,
		protocol.FieldTimestamp: ts,
	})
}
