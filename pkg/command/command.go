package command

import (
	"context"
	"fmt"
	"time"

	"github.com/lobocorp/modbus-edge-supervisor/pkg/identity"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/log"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/registers"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/wire"
)

// ErrInvalidUnitID is returned by SetUnitID when the requested value falls
// outside the valid Modbus slave address range.
var ErrInvalidUnitID = fmt.Errorf("command: unit id must be in [1,247]")

// ErrAliasTooLong is returned by SetAlias when the alias exceeds
// registers.MaxAliasBytes.
var ErrAliasTooLong = fmt.Errorf("command: alias exceeds %d bytes", registers.MaxAliasBytes)

// Transactor is the bus-arbiter capability a Commander needs.
type Transactor interface {
	Transact(ctx context.Context, req []byte, timeout time.Duration) ([]byte, error)
}

// Commander executes the stateful command surface against a single bus
// arbiter, updating the identity cache on success.
type Commander struct {
	arbiter Transactor
	cache   *identity.Cache
	logger  log.Logger
	timeout time.Duration
}

// New builds a Commander. timeout bounds every command transaction; logger
// may be nil.
func New(arbiter Transactor, cache *identity.Cache, logger log.Logger, timeout time.Duration) *Commander {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Commander{arbiter: arbiter, cache: cache, logger: logger, timeout: timeout}
}

// Identify sends the blink-and-info exchange (function 0x41) to unit and
// caches the parsed alias on success.
func (c *Commander) Identify(ctx context.Context, unit uint8) (wire.IdentifyResult, error) {
	resp, err := c.arbiter.Transact(ctx, wire.BuildIdentify(unit), c.timeout)
	if err != nil {
		c.logError(unit, "identify", err)
		return wire.IdentifyResult{}, err
	}
	result, err := wire.ParseIdentifyResponse(unit, resp)
	if err != nil {
		c.logError(unit, "identify", err)
		return wire.IdentifyResult{}, err
	}
	if c.cache != nil {
		c.cache.SetAliasLocal(unit, result.Info)
	}
	return result, nil
}

// IdentifyWithDuration asks unit to blink for seconds seconds by writing
// the duration register. It is fire-and-forget: the write is never
// retried, so a lost acknowledgement cannot trigger a second blink cycle.
func (c *Commander) IdentifyWithDuration(ctx context.Context, unit uint8, seconds uint16) error {
	req := wire.BuildWriteSingleRegister(unit, registers.AddrIdentifyDurSec, seconds)
	resp, err := c.arbiter.Transact(ctx, req, c.timeout)
	if err != nil {
		c.logError(unit, "identify_duration", err)
		return err
	}
	if err := wire.ParseWriteSingleResponse(unit, registers.AddrIdentifyDurSec, seconds, resp); err != nil {
		c.logError(unit, "identify_duration", err)
		return err
	}
	return nil
}

// SetAlias writes a human-readable alias to unit's RAM configuration in a
// single multi-register write and updates the cached alias on success. The
// write is not persisted across a power cycle until CommitToEEPROM runs.
func (c *Commander) SetAlias(ctx context.Context, unit uint8, alias string) error {
	if len(alias) > registers.MaxAliasBytes {
		c.logError(unit, "set_alias", ErrAliasTooLong)
		return ErrAliasTooLong
	}
	regs := registers.EncodeAlias(alias)
	req := wire.BuildWriteMultipleRegisters(unit, registers.AddrAliasLength, regs)
	resp, err := c.arbiter.Transact(ctx, req, c.timeout)
	if err != nil {
		c.logError(unit, "set_alias", err)
		return err
	}
	if err := wire.ParseWriteMultipleResponse(unit, registers.AddrAliasLength, len(regs), resp); err != nil {
		c.logError(unit, "set_alias", err)
		return err
	}
	if c.cache != nil {
		c.cache.SetAliasLocal(unit, alias)
	}
	return nil
}

// SetUnitID changes unit's RAM-resident Modbus address to newUnit and
// renames its identity-cache entry on success. Like SetAlias, this is not
// persisted until CommitToEEPROM runs.
func (c *Commander) SetUnitID(ctx context.Context, unit, newUnit uint8) error {
	if newUnit < 1 || newUnit > 247 {
		return ErrInvalidUnitID
	}
	req := wire.BuildWriteSingleRegister(unit, registers.AddrUnitIDConfig, uint16(newUnit))
	resp, err := c.arbiter.Transact(ctx, req, c.timeout)
	if err != nil {
		c.logError(unit, "set_unit_id", err)
		return err
	}
	if err := wire.ParseWriteSingleResponse(unit, registers.AddrUnitIDConfig, uint16(newUnit), resp); err != nil {
		c.logError(unit, "set_unit_id", err)
		return err
	}
	if c.cache != nil {
		if err := c.cache.RenameUnit(unit, newUnit); err != nil {
			c.logError(unit, "set_unit_id", err)
			return err
		}
	}
	return nil
}

// CommitToEEPROM persists the slave's current RAM configuration (alias,
// Unit-ID) so it survives a power cycle.
func (c *Commander) CommitToEEPROM(ctx context.Context, unit uint8) error {
	req := wire.BuildWriteSingleRegister(unit, registers.AddrCommitEEPROM, registers.CommitToEEPROMMagic)
	resp, err := c.arbiter.Transact(ctx, req, c.timeout)
	if err != nil {
		c.logError(unit, "commit_eeprom", err)
		return err
	}
	if err := wire.ParseWriteSingleResponse(unit, registers.AddrCommitEEPROM, registers.CommitToEEPROMMagic, resp); err != nil {
		c.logError(unit, "commit_eeprom", err)
		return err
	}
	return nil
}

func (c *Commander) logError(unit uint8, op string, err error) {
	c.logger.Log(log.Event{
		Timestamp: time.Now(),
		Layer:     log.LayerCommand,
		UnitID:    unit,
		Category:  log.CategoryError,
		Error:     &log.ErrorEventData{Layer: log.LayerCommand, Message: err.Error(), Context: op},
	})
}
