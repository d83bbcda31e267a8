package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers the engine.* Lua tables into L:
//
//	engine.log.debug / info / warn / error (msg): structured logging
//	engine.roll(expr): audited dice roll; returns {total, dice, modifier},
//	or nil for a malformed expression
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: the engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()

	logs := L.NewTable()
	L.SetField(logs, "debug", L.NewFunction(m.luaLog(m.logger.Debug)))
	L.SetField(logs, "info", L.NewFunction(m.luaLog(m.logger.Info)))
	L.SetField(logs, "warn", L.NewFunction(m.luaLog(m.logger.Warn)))
	L.SetField(logs, "error", L.NewFunction(m.luaLog(m.logger.Error)))
	L.SetField(engine, "log", logs)

	L.SetField(engine, "roll", L.NewFunction(m.luaRoll))

	L.SetGlobal("engine", engine)
}

// luaLog adapts one zap level into a Lua function taking a message string.
func (m *Manager) luaLog(emit func(msg string, fields ...zap.Field)) lua.LGFunction {
	return func(L *lua.LState) int {
		msg := L.CheckString(1)
		emit(msg, zap.String("origin", "lua"))
		return 0
	}
}

// luaRoll implements engine.roll. Rolls draw from the encounter's audited
// roller, so scripted rolls appear in the debug roll log alongside combat
// rolls and stay reproducible under a pinned seed.
func (m *Manager) luaRoll(L *lua.LState) int {
	expr := L.CheckString(1)
	res, err := m.roller.RollExpr(expr)
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	sum := 0
	for _, d := range res.Dice {
		sum += d
	}
	tbl := L.NewTable()
	L.SetField(tbl, "total", lua.LNumber(res.Total()))
	L.SetField(tbl, "dice", lua.LNumber(sum))
	L.SetField(tbl, "modifier", lua.LNumber(res.Modifier))
	L.Push(tbl)
	return 1
}
